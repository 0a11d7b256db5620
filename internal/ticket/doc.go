// Package ticket produces consumer onboarding tickets.
//
// A ticket is "<base64 payload>.<base64 signature>" where the payload is
// {"id":"<uuid>","expirationDate":"<unix seconds>"} and the signature is
// RSA PKCS#1 v1.5 over its SHA-256 digest, made with the private half of
// the key whose public half was given to the provider addon.
//
// Two implementations exist: ScriptGenerator runs the upstream ticketgen.sh
// helper, NativeSigner builds the same ticket in process.
package ticket
