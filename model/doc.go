// Package model contains the in-memory representation of approval orders,
// per-recipient responses and parsed reply intents shared by the intake,
// approval and persistence layers.
package model
