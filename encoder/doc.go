// Package encoder implements the attributed-adjacency-graph neural
// network that powers feature recognition: a linear attribute
// embedding, a stack of self-attention blocks and three prediction
// heads (per-face class logits, pairwise instance affinity, bottom
// face flags).
//
// Inference is pure float32 arithmetic over the weights loaded from a
// checkpoint. For a fixed model and input the output is bit-for-bit
// deterministic.
package encoder
