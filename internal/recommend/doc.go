// Movierec - Movie Recommendations and Viewing Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/movierec

// Package recommend ranks catalog items for a user.
//
// # Strategies
//
//   - popular: the user has no watch history. Items are ranked by total
//     watch duration across all users.
//   - popular_fallback: the user has history but the loaded model has no
//     row for them, or no model is loaded. Same ranking as popular.
//   - personalized: every trained item is scored for the user, watched
//     items are removed and the rest are returned best-first.
//
// # Index Space
//
// A trained model addresses users and items by dense indices. The Mapper
// translates between those indices and catalog ids; Scorer implementations
// only ever see indices. Swapping the model never touches ranking code.
//
// # Usage
//
//	model, err := recommend.LoadModel(ctx, cfg.Model)
//	svc, err := recommend.NewService(store, model, recommend.OptionsFromConfig(cfg))
//	defer svc.Close()
//
//	resp, err := svc.Recommend(ctx, userID, 20)
//
// # Thread Safety
//
// Service, Mapper and the scorers are safe for concurrent use. Each call
// reads one immutable catalog snapshot.
package recommend
