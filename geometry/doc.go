// Package geometry turns raw solid-model data into the attributed adjacency
// graph consumed by the encoder.
//
// The pipeline is ParseSTL → BuildGraph → NodeAttributes/EdgeAttributes:
// a binary STL blob becomes a triangle Mesh, the mesh becomes a Graph of
// faces whose adjacency follows shared undirected vertex edges, and the graph
// yields the fixed-width per-face (10 floats) and per-adjacent-pair
// (12 floats) attribute vectors.
//
// A Graph may also be assembled directly by an external geometry source;
// adjacency is always kept symmetric and free of self loops.
package geometry
