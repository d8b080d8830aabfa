// Package builtin registers the reference algorithm implementations shipped
// with the chorus binary.
//
// They are deliberately simple — uniform boundary placement and a
// length-quantile labeler — so the pipeline works end to end without an
// external algorithm plugin. Research-grade segmenters register through the
// same algo.Segmenter contract.
package builtin
