// Package identity canonicalizes chat addresses into stable recipient keys so
// that the same person is matched regardless of the surface form the chat
// provider or the calling application used.
package identity
