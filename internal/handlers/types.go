package handlers

// SignUpRequest is the request body for creating an account.
type SignUpRequest struct {
	Body struct {
		FirstName string `doc:"First name"          example:"Ada"                 json:"firstName" minLength:"1"`
		LastName  string `doc:"Last name"           example:"Lovelace"            json:"lastName"  minLength:"1"`
		Email     string `doc:"E-mail address"      example:"ada@example.com"     format:"email"   json:"email"`
		Username  string `doc:"Unique username"     example:"ada"                 json:"username"  minLength:"3"`
		Password  string `doc:"Account password"    example:"correct-horse"       json:"password"  minLength:"8"`
	}
}

// SignUpResponse is the response for a successfully created account.
type SignUpResponse struct {
	Status int
	Body   struct {
		ID       string `doc:"Account identifier" json:"id"`
		Email    string `doc:"Normalized e-mail"  json:"email"`
		Username string `doc:"Username"           json:"username"`
	}
}

// SignInRequest is the request body for signing in.
type SignInRequest struct {
	Body struct {
		Username string `doc:"Username" example:"ada" json:"username" minLength:"1"`
		Password string `doc:"Password" json:"password" minLength:"1"`
	}
}

// SignInResponse carries the session token plus the verification status so
// clients can gate features without another round trip.
type SignInResponse struct {
	Body struct {
		AccessToken   string `doc:"Bearer session token"       json:"accessToken"`
		EmailVerified bool   `doc:"Whether e-mail is verified" json:"emailVerified"`
		Email         string `doc:"Account e-mail"             json:"email"`
	}
}

// VerifyEmailRequest is the request for consuming a verification token.
type VerifyEmailRequest struct {
	Token string `doc:"Verification token" path:"token"`
}

// MessageResponse is a generic acknowledgement body.
type MessageResponse struct {
	Body struct {
		Message string `doc:"Human-readable result" json:"message"`
	}
}

// ResendEmailRequest is the request for re-sending a verification link.
type ResendEmailRequest struct {
	Email string `doc:"Registered e-mail address" format:"email" path:"email"`
}

// ShortenRequest is the request body for shortening a URL.
type ShortenRequest struct {
	Body struct {
		LongURL string `doc:"The URL to shorten" example:"https://example.com/very/long/path" format:"uri" json:"longUrl"`
	}
}

// LinkBody is the serialized form of a short link.
type LinkBody struct {
	Code     string `doc:"The short code"     example:"V1StGXR8_Z5jdHi6B-myT"                       json:"code"`
	LongURL  string `doc:"The original URL"   example:"https://example.com/very/long/path"          json:"longUrl"`
	ShortURL string `doc:"The full short URL" example:"http://localhost:8888/V1StGXR8_Z5jdHi6B-myT" json:"shortUrl"`
}

// ShortenResponse is the response for a shortened URL.
type ShortenResponse struct {
	Status  int
	Headers struct {
		Location string `doc:"The short URL location" header:"Location"`
	}
	Body LinkBody
}

// ListLinksResponse is the response listing the caller's links.
type ListLinksResponse struct {
	Body struct {
		Links []LinkBody `doc:"Short links owned by the caller" json:"links"`
	}
}

// GetLinkRequest is the request for fetching one of the caller's links.
type GetLinkRequest struct {
	Code string `doc:"The short code" path:"code"`
}

// GetLinkResponse is the response for a single link.
type GetLinkResponse struct {
	Body LinkBody
}

// DeleteLinkRequest is the request for deleting one of the caller's links.
type DeleteLinkRequest struct {
	Code string `doc:"The short code" path:"code"`
}

// RedirectRequest is the request for the public redirect.
type RedirectRequest struct {
	Code string `doc:"The short code" path:"code"`
}

// RedirectResponse redirects to the stored long URL.
type RedirectResponse struct {
	Status  int
	Headers struct {
		Location string `doc:"The original URL" header:"Location"`
	}
}
