//go:build debug

package assert

const enabled = true
