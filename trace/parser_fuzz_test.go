package trace

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func FuzzParser(f *testing.F) {
	f.Add(".entry 0\n1 LOAD\n2 JMP jmp 1\n")
	f.Add("a: 0 JE jcc+ a $(a+1)\n")
	f.Add(".rept 2\n0 NOP\n.endr\n")
	f.Add(".equ X 5\nX NOP ; x\n")

	f.Fuzz(func(t *testing.T, text string) {
		assert := assert.New(t)

		p := &Parser{}
		tr, err := p.Parse(strings.NewReader(text))
		if err != nil {
			assert.Nil(tr)
			return
		}

		for _, step := range tr.Steps {
			assert.NotNil(step.Record)
		}
	})
}
