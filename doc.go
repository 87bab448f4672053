// Package graw provides a Go client for the Reddit API: a three-tier
// Unauth/OAuth/Authed request pipeline with a header-driven ratelimiter, a
// classifying retry executor, and a typed domain model over Reddit's
// recursive "Listing/Thing" JSON envelopes.
//
// # Overview
//
// The package wraps the hard parts of talking to Reddit's OAuth endpoints:
//
//   - An OAuth2 password-grant credential lifecycle with transparent
//     re-authentication on a 401.
//   - A sliding-window ratelimiter synchronized with Reddit's
//     X-Ratelimit-* response headers.
//   - A retry policy that distinguishes transient, rate-limited,
//     authorization-required, and terminal failures.
//   - A polymorphic JSON decoder for Reddit's Listing/Thing envelopes,
//     including the self-referential replies field on comments.
//
// # Quick start
//
//	config := &graw.Config{
//		ClientID:     "your-client-id",
//		ClientSecret: "your-client-secret",
//		Username:     "your-username",
//		Password:     "your-password",
//		UserAgent:    "platform:appname:1.0 (by /u/yourusername)",
//	}
//
//	client, err := graw.Connect(context.Background(), config)
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	hot, err := client.Subreddit("golang").Hot(context.Background(), types.FeedOption{Limit: 25})
//	if err != nil {
//		log.Fatal(err)
//	}
//	for _, post := range hot.Items {
//		fmt.Printf("%s (score: %.0f)\n", post.Title, post.Score)
//	}
//
// # Client tiers
//
// Three tiers share the same request-building and decoding helpers but
// differ in what they're allowed to do:
//
//   - UnauthClient: read-only public endpoints, no ratelimiter; requests
//     are retried by the same executor the other tiers use.
//   - OAuthClient: app-only OAuth, full ratelimiter and retry executor, no
//     bearer token unless Config.AccessToken is preset.
//   - AuthedClient: wraps an OAuthClient with a reader/writer-protected
//     access-token cell and a re-login-on-401-then-retry-once protocol.
//     Mutating operations (Reply, Edit, Remove, ...) require this tier; a
//     lower tier returns pkg/errors.OAuthClientRequiredError.
//
// # Domain model
//
// Subreddit, Submission, Comment, Message, and LiveThread wrap their raw
// decoded data with a back-reference to the client that produced them, so
// mutating methods need only the entity's own fullname plus new text. The
// back-reference is a capability, not an owner: dropping the wrapped value
// does not affect the client, and cloning a client is cheap since the
// domain graph it hands out has no cycles.
//
// # Pagination
//
// Listing[T] pages carry Before/After *types.Fullname cursors. Thread them
// back into types.FeedOption.After for the next page:
//
//	opt := types.FeedOption{Limit: 25}
//	page1, err := client.Subreddit("golang").New(ctx, opt)
//	page2, err := client.Subreddit("golang").New(ctx, page1.NextPage(opt))
//
// # Errors
//
// All errors are one of the named types in pkg/errors (CredentialsNotSet,
// AuthError, NetworkError, FullNetworkError, StatusError, RedditError,
// RatelimitedError, ParseError, OAuthClientRequiredError, ConfigError). Use errors.As to
// inspect a specific kind's payload.
//
// # Logging
//
// Pass a *slog.Logger via Config.Logger to see ratelimiter waits and updates
// and Retry-After retries at Debug, and failed re-logins and validation
// warnings for decoded messages, accounts and subreddits at Warn. Terminal
// request failures are returned, not logged. The access token and password
// are never logged.
package graw
