// Package cosmoscli is a typed builder over the command-line interface shared
// by Cosmos SDK chain binaries. A Tool binds a Runner to one binary (or
// containerized) invocation; Cmd narrows it into key management, chain
// bootstrap, transaction and query operations, each of which executes exactly
// one subprocess and parses its JSON (or plain text) output.
//
// The only retrying code in the package lives in WaitForTx and WaitForBlocks,
// which poll a query until a transaction is included or the chain produces a
// new block. Everything else fails fast.
package cosmoscli
