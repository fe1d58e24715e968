// Package feature turns clustered face proposals into detected
// machining features: a canonical feature class, a confidence score,
// geometry summaries and machining parameters.
package feature
