//go:build !paramlogdebug

package taskevent

// debugAssertions hard-fails degraded metadata extraction in diagnostics
// builds (-tags paramlogdebug). Production builds substitute the error text
// and keep writing.
const debugAssertions = false
