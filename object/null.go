package object

import "io"

func formatNull(self Object, w io.Writer) error {
	_, err := io.WriteString(w, "null")
	return err
}
