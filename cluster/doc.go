// Package cluster groups faces into feature instance proposals from
// the pairwise affinity predictions of the encoder.
//
// The affinity logits are binarized with a sigmoid threshold and the
// resulting adjacency is swept with a greedy row scan. The scan is
// deterministic and the emitted proposals are pairwise disjoint.
package cluster
