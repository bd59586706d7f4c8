package textutil_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/Botiquin-api/pkg/textutil"
)

func TestFold(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"Acetaminofén", "acetaminofen"},
		{"IBUPROFENO", "ibuprofeno"},
		{"Ácido acetilsalicílico", "acido acetilsalicilico"},
		{"vitamina-D3", "vitamina-d3"},
		{"", ""},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, textutil.Fold(c.in), "Fold(%q)", c.in)
	}
}

// La búsqueda con y sin tilde debe normalizar a lo mismo.
func TestFold_BusquedaInsensibleATildes(t *testing.T) {
	assert.Equal(t, textutil.Fold("acetaminofén"), textutil.Fold("ACETAMINOFEN"))
}
