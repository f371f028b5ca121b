// Package batch runs a batch of simulation configurations read from a CSV
// file and writes one result row per configuration.
//
// Configurations are independent so are run concurrently on a bounded pool
// of workers. Rows that fail to parse or describe an invalid configuration
// are reported in the output rather than failing the batch.
package batch
