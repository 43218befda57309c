package domain

// KeyPrefix is the default storage key namespace.
const KeyPrefix = "smartcut:"
