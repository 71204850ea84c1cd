package common

// AccessTokenHeaderName is the HTTP header used to carry the access token
// on authenticated requests.
const AccessTokenHeaderName = "Authorization"

// KeyPairIDHeaderName carries the identifier of the one-time key pair whose
// public key was used to encrypt sensitive fields of the request body.
const KeyPairIDHeaderName = "X-Key-Pair-Id"
