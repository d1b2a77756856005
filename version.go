package diffx

// Version is the semantic version of the diffx library, exposed for
// compatibility tracking by callers
const Version = "0.6.0"
