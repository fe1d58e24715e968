// Package aagnet recognizes machining features (holes, pockets, slots,
// steps and more) on a solid's face set.
//
// The part is modeled as an attributed adjacency graph: faces are
// nodes carrying geometric attribute vectors, face adjacencies are
// edges carrying relational attributes. A graph encoder produces
// per-face embeddings, three heads predict per-face class logits,
// pairwise instance affinities and bottom-face flags, and a greedy
// clustering step turns the affinity matrix into disjoint face groups.
// Each group becomes one detected feature with a canonical type, a
// confidence score, geometry summaries and machining parameters.
//
// Basic usage:
//
//	model := encoder.NewRandom(encoder.DefaultConfig, 1)
//	rec := aagnet.New(model)
//
//	resp, err := rec.Analyze(ctx, &aagnet.AnalyzeRequest{
//		GeometryData: base64.StdEncoding.EncodeToString(stlBytes),
//		FileName:     "bracket.stl",
//	})
//
// Production deployments load trained weights from a blob store
// instead:
//
//	store, err := s3.New(ctx, "models-bucket")
//	rec, err := aagnet.Open(ctx, store)
//
// Open resolves the newest checkpoint under the configured naming
// convention (or the ACTIVE pointer when the store carries one),
// decodes it and builds the model. Reload re-runs that resolution and
// swaps the model atomically; in-flight analyses keep the model they
// started with.
package aagnet
