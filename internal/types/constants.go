package types

const ContextUserKey = "user"
