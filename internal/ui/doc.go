// Package ui renders scancam's terminal output.
//
// Commands print a Header describing what they are about to do, then a
// Result box: green for success, orange when negotiation recovered from a
// condition such as resolution drift, red for failures with troubleshooting
// lines taken from the camera error.
//
// Output is run-once and non-interactive. Logging stays silent unless
// SCANCAM_LOG_LEVEL is set, so the boxes are the only thing on stdout.
package ui
