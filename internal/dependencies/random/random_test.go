package random

import (
	"testing"

	"github.com/stretchr/testify/suite"
)

type RandomSuite struct {
	suite.Suite
}

func TestRandomSuite(t *testing.T) {
	suite.Run(t, new(RandomSuite))
}

func (s *RandomSuite) TestCryptoIntnInRange() {
	r := New()
	for i := 0; i < 200; i++ {
		v := r.Intn(7)
		s.GreaterOrEqual(v, 0)
		s.Less(v, 7)
	}
	s.Equal(0, r.Intn(0))
}

func (s *RandomSuite) TestSeededIsDeterministic() {
	a := NewSeeded(42)
	b := NewSeeded(42)
	for i := 0; i < 50; i++ {
		s.Equal(a.Intn(108), b.Intn(108))
	}
	s.Equal(a.String(6, "ABCDEF"), b.String(6, "ABCDEF"))
}

func (s *RandomSuite) TestStringUsesAlphabet() {
	out := NewSeeded(7).String(12, "XY")
	s.Len(out, 12)
	for _, c := range out {
		s.Contains("XY", string(c))
	}
	s.Empty(New().String(0, "XY"))
	s.Empty(New().String(4, ""))
}
