// Package enhance maps named enhancement templates to the instruction text
// sent alongside audio for prompted transcription.
package enhance
