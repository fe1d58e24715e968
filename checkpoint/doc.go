// Package checkpoint loads trained model weights.
//
// A checkpoint blob is an optionally compressed JSON document holding a
// mapping from parameter names to tensors. The decoder probes an ordered
// list of lookup strategies (a "model_state_dict" field, then a
// "state_dict" field, then the whole document); the first one that
// yields a tensor mapping wins.
//
// The Loader resolves which blob to load from a blobstore: an ACTIVE pointer
// blob when one exists, otherwise the lexicographically last name with the
// checkpoint suffix under the configured prefix.
package checkpoint
