package lookup

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeJSON(t *testing.T) {
	tests := []struct {
		name string
		body string
		want int
	}{
		{"first product", `[{"id": 11638, "name": "Sony Cyber-shot DSC-RX10 IV", "vendor": {"id": 11, "name": "Sony"}, "markets": []}]`, 11638},
		{"takes index 0", `[{"id": 1}, {"id": 2}]`, 1},
		{"empty array", `[]`, 0},
		{"empty object", `{}`, 0},
		{"no id field", `[{"name": "Sony"}]`, 0},
		{"null id", `[{"id": null}]`, 0},
		{"string id", `[{"id": "7519"}]`, 7519},
		{"object takes first property", `{"a": {"id": 5}, "b": 1}`, 5},
		{"object first property in document order", `{"z": {"id": 8}, "a": {"id": 9}}`, 8},
		{"object with id at top level", `{"id": 42, "name": "HP 250 G3"}`, 0},
		{"object first property not a product", `{"a": 1, "b": {"id": 5}}`, 0},
		{"negative id", `[{"id": -5}]`, 0},
		{"scalar", `5`, 0},
		{"first element not an object", `[3, {"id": 4}]`, 0},
		{"trailing whitespace", "[{\"id\": 9}]\n", 9},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Decode([]byte(tt.body), ResponseJSON)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDecodeJSON_Malformed(t *testing.T) {
	for _, body := range []string{`null`, ``, `[{"id": 1}`, `<Products/>`, `[] []`} {
		_, err := Decode([]byte(body), ResponseJSON)
		assert.ErrorIs(t, err, ErrDecode, "body %q", body)
	}
}

func TestDecodeXML(t *testing.T) {
	tests := []struct {
		name string
		body string
		want int
	}{
		{
			"product",
			`<Products xmlns:i="http://www.w3.org/2001/XMLSchema-instance">
				<Product>
					<Category><Id>3</Id><Name>Laptops</Name><IsPro>true</IsPro></Category>
					<Id>7519</Id>
					<Name>HP 250 G3 Black</Name>
					<Vendor><Id>22</Id><Name>HP</Name></Vendor>
				</Product>
			</Products>`,
			7519,
		},
		{"minimal", `<Products><Product><Id>7519</Id></Product></Products>`, 7519},
		{"no products", `<Products></Products>`, 0},
		{"product without id", `<Products><Product><Name>x</Name></Product></Products>`, 0},
		{"non numeric id", `<Products><Product><Id>abc</Id></Product></Products>`, 0},
		{"first of many", `<Products><Product><Id>1</Id></Product><Product><Id>2</Id></Product></Products>`, 1},
		{"product as root", `<Product><Id>7519</Id></Product>`, 0},
		{"trailing whitespace and comment", "<Products><Product><Id>3</Id></Product></Products>\n<!-- cached -->\n", 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Decode([]byte(tt.body), ResponseXML)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDecodeXML_Malformed(t *testing.T) {
	for _, body := range []string{
		``,
		`not xml`,
		`<Products><Product>`,
		`<Products></Product>`,
		`<Products><Product><Id>7</Id></Product></Products>garbage<<`,
		`<Products></Products><Products></Products>`,
	} {
		_, err := Decode([]byte(body), ResponseXML)
		assert.ErrorIs(t, err, ErrDecode, "body %q", body)
	}
}

func TestDecode_UnknownType(t *testing.T) {
	_, err := Decode([]byte(`[]`), ResponseType("yaml"))
	assert.ErrorIs(t, err, ErrInvalidArgument)
}
