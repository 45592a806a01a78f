package common

// AuthorizationHeaderName is the HTTP header carrying the session token.
const AuthorizationHeaderName = "Authorization"

// BearerScheme prefixes the token inside the Authorization header.
const BearerScheme = "Bearer"
