// Package flowerr defines the error taxonomy shared across the
// questionnaire traversal engine. Every fallible component returns a
// *FlowError carrying one of a small set of Kinds rather than inventing
// its own sentinel error per failure mode, so the HTTP layer (and any
// other caller) can map failures to a response without type-asserting
// against every package's error variables.
package flowerr
