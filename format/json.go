package format

import (
	"encoding/json"
	"io"

	"github.com/dhamidi/classgraph/java"
)

type JSONEncoder struct {
	w     io.Writer
	class *java.Class
}

func NewJSONEncoder(w io.Writer) *JSONEncoder {
	return &JSONEncoder{w: w}
}

func (e *JSONEncoder) Encode(class *java.Class) error {
	e.class = class
	text, err := e.MarshalText()
	if err != nil {
		return err
	}
	text = append(text, '\n')
	_, err = e.w.Write(text)
	return err
}

func (e *JSONEncoder) MarshalText() ([]byte, error) {
	return json.MarshalIndent(describeClass(e.class), "", "  ")
}
