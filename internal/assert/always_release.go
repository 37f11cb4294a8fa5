//go:build !swrast_debug

package assert

func always(cond bool, msg string) {}
