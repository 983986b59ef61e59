// Package oauth implements the provider side of the login flow for Google
// and Kakao: building the authorization URL, exchanging the authorization
// code for a provider token, fetching the raw profile and normalizing it
// into an Identity.
//
// The two providers differ on the wire. Google receives the token request as
// a JSON object and serves the profile with GET. Kakao receives a form-encoded
// token request and serves the profile with POST. Both carry the provider
// token in an "Authorization: Bearer" header.
//
// # Usage
//
//	google, err := oauth.NewGoogleProvider(oauth.GoogleConfig{
//		ClientID:     os.Getenv("GOOGLE_OAUTH_CLIENT_ID"),
//		ClientSecret: os.Getenv("GOOGLE_OAUTH_CLIENT_SECRET"),
//		RedirectURL:  "https://example.com/oauth/google/callback",
//	})
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	registry := oauth.NewRegistry(google)
//	p, err := registry.Get(oauth.Google)
//
//	tok, err := p.Exchange(ctx, code)
//	raw, err := p.FetchProfile(ctx, tok)
//	identity, err := p.Normalize(raw)
//
// # Error Handling
//
// Every failure is joined with one outcome error:
//
//   - ErrBadCode: token endpoint rejected the code or its response was unusable
//   - ErrBadToken: profile endpoint could not be read with the provider token
//   - ErrMalformedProfile: profile is missing its email or display name
//
// Detail errors such as ErrRequestFailed, ErrDecodeFailed or
// ErrEmailNotVerified are joined alongside for diagnostics.
//
// # Testing
//
// Use WithHTTPClient to route provider traffic to a local handler:
//
//	p, err := oauth.NewKakaoProvider(cfg, oauth.WithHTTPClient(ts.Client()))
package oauth
