package logger

// ToZapFields exports toZapFields for testing.
var ToZapFields = toZapFields
