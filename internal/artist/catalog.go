package artist

import "strings"

// catalogLabels lists the classifier labels in model output order.
var catalogLabels = []string{
	"Albrecht_Durer", "Alfred_Sisley", "Amedeo_Modigliani", "Andy_Warhol", "Artemisia_Gentileschi",
	"Berthe_Morisot", "Camille_Pissarro", "Canaletto", "Caravaggio", "Claude_Monet",
	"Diego_Velazquez", "Edgar_Degas", "Edouard_Manet", "Edvard_Munch", "El_Greco",
	"Eugene_Delacroix", "Francisco_Goya", "Frida_Kahlo", "Georges_Seurat", "Giotto_di_Bondone",
	"Gustav_Klimt", "Gustave_Courbet", "Henri_Matisse", "Henri_Rousseau", "Henri_de_Toulouse-Lautrec",
	"Hieronymus_Bosch", "Jackson_Pollock", "Jan_van_Eyck", "Joan_Miro", "Kazimir_Malevich",
	"Leonardo_da_Vinci", "Marc_Chagall", "Michelangelo", "Mikhail_Vrubel", "Pablo_Picasso",
	"Paul_Cezanne", "Paul_Gauguin", "Paul_Klee", "Peter_Paul_Rubens", "Pierre-Auguste_Renoir",
	"Piet_Mondrian", "Pieter_Bruegel", "Raphael", "Rembrandt", "René_Magritte",
	"Salvador_Dali", "Sandro_Botticelli", "Titian", "Vasiliy_Kandinsky", "Vincent_van_Gogh",
	"William_Turner",
}

// Labels returns a copy of the classifier labels in model order.
func Labels() []string {
	out := make([]string, len(catalogLabels))
	copy(out, catalogLabels)
	return out
}

// Catalog returns one Artist per classifier label, numbered from 1, with
// the movement as genre and an article URL under baseURL.
func Catalog(baseURL string) []Artist {
	out := make([]Artist, 0, len(catalogLabels))
	for i, label := range catalogLabels {
		id := IdentityFromLabel(label, baseURL)
		out = append(out, Artist{
			ID:        i + 1,
			Name:      id.DisplayName,
			Genre:     Style(id.DisplayName),
			Wikipedia: id.SourceURL,
		})
	}
	return out
}

// DefaultStyle is returned by Style for artists without a known movement.
const DefaultStyle = "Modern Art"

var styles = map[string]string{
	"Albrecht Durer":            "Northern Renaissance",
	"Alfred Sisley":             "Impressionism",
	"Amedeo Modigliani":         "Expressionism",
	"Andy Warhol":               "Pop Art",
	"Artemisia Gentileschi":     "Baroque",
	"Berthe Morisot":            "Impressionism",
	"Camille Pissarro":          "Impressionism",
	"Canaletto":                 "Vedutism",
	"Caravaggio":                "Baroque",
	"Claude Monet":              "Impressionism",
	"Diego Velazquez":           "Baroque",
	"Edgar Degas":               "Impressionism",
	"Edouard Manet":             "Realism / Impressionism",
	"Edvard Munch":              "Expressionism",
	"El Greco":                  "Mannerism",
	"Eugene Delacroix":          "Romanticism",
	"Francisco Goya":            "Romanticism",
	"Frida Kahlo":               "Surrealism",
	"Georges Seurat":            "Neo-Impressionism",
	"Giotto di Bondone":         "Proto-Renaissance",
	"Gustav Klimt":              "Art Nouveau",
	"Gustave Courbet":           "Realism",
	"Henri Matisse":             "Fauvism",
	"Henri Rousseau":            "Naive Art / Primitivism",
	"Henri de Toulouse-Lautrec": "Post-Impressionism",
	"Hieronymus Bosch":          "Northern Renaissance",
	"Jackson Pollock":           "Abstract Expressionism",
	"Jan van Eyck":              "Northern Renaissance",
	"Joan Miro":                 "Surrealism",
	"Kazimir Malevich":          "Suprematism",
	"Leonardo da Vinci":         "High Renaissance",
	"Marc Chagall":              "Modernism",
	"Michelangelo":              "High Renaissance",
	"Mikhail Vrubel":            "Symbolism",
	"Pablo Picasso":             "Cubism",
	"Paul Cezanne":              "Post-Impressionism",
	"Paul Gauguin":              "Post-Impressionism",
	"Paul Klee":                 "Expressionism / Bauhaus",
	"Peter Paul Rubens":         "Baroque",
	"Pierre-Auguste Renoir":     "Impressionism",
	"Piet Mondrian":             "De Stijl",
	"Pieter Bruegel":            "Northern Renaissance",
	"Raphael":                   "High Renaissance",
	"Rembrandt":                 "Baroque",
	"René Magritte":             "Surrealism",
	"Salvador Dali":             "Surrealism",
	"Sandro Botticelli":         "Early Renaissance",
	"Titian":                    "High Renaissance",
	"Vasiliy Kandinsky":         "Abstract Art",
	"Wassily Kandinsky":         "Abstract Art",
	"Vincent van Gogh":          "Post-Impressionism",
	"William Turner":            "Romanticism",
}

// Style returns the art movement for an artist name in either
// underscore or space form, or DefaultStyle when unknown.
func Style(name string) string {
	if s, ok := styles[strings.ReplaceAll(name, "_", " ")]; ok {
		return s
	}
	if s, ok := styles[name]; ok {
		return s
	}
	return DefaultStyle
}
