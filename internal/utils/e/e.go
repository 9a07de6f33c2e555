package e

import "fmt"

// Wrap annotates err with msg, keeping it unwrappable. A nil err stays nil.
func Wrap(msg string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", msg, err)
}

// WrapIfErr is Wrap for deferred assignments to a named error result
func WrapIfErr(msg string, err *error) {
	if *err != nil {
		*err = Wrap(msg, *err)
	}
}
