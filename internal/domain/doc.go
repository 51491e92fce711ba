// Package domain contains the core entities of the bilingual learning
// application: learners, English/Hindi learning items, bilingual stories, and
// the per-learner review state driven by the spaced repetition scheduler.
//
// Domain objects validate themselves and carry no persistence or transport
// concerns. Review state is updated immutably through the srs subpackage
// rather than by mutating methods on the structs.
package domain
