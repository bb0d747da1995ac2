//go:build paramlogdebug

package taskevent

const debugAssertions = true
