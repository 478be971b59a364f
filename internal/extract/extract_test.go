package extract_test

import (
	"strings"
	"testing"

	"github.com/chriscorrea/nearest/internal/extract"
)

const (
	articleHTML = `<!DOCTYPE html>
<html>
<head>
    <title>Animales del barrio</title>
</head>
<body>
    <header>
        <h1>Cabecera del sitio</h1>
        <nav>Navegación</nav>
    </header>
    <main>
        <article>
            <h1>Animales del barrio</h1>
            <p>El perro ladra fuerte en el parque cuando llegan los niños del colegio.</p>
            <p>El gato maúlla <strong>suavemente</strong> durante la noche y duerme de día.</p>
            <ul>
                <li>Los pájaros cantan al amanecer</li>
                <li>Los niños corren en el jardín</li>
            </ul>
        </article>
    </main>
    <footer>
        <p>Pie de página</p>
    </footer>
</body>
</html>`

	recipeHTML = `<html><body>
<div class="receta">
    <h2>Tortilla de patatas</h2>
    <ol>
        <li>Pelar y cortar las patatas</li>
        <li>Batir los <em>huevos</em> con sal</li>
    </ol>
    <blockquote><p>El secreto está en el aceite.</p></blockquote>
    <p>Más recetas en <a href="https://example.com">nuestra web</a>.</p>
</div>
<aside class="lateral"><p>Publicidad</p></aside>
</body></html>`
)

func TestToText(t *testing.T) {
	tests := []struct {
		name        string
		html        string
		selector    string
		includeAll  bool
		expectError bool
		expectEmpty bool
		contains    []string
		notContains []string
	}{
		{
			name:     "main content extraction",
			html:     articleHTML,
			contains: []string{"El perro ladra fuerte en el parque", "suavemente", "Los pájaros cantan al amanecer"},
		},
		{
			name:        "class selector",
			html:        recipeHTML,
			selector:    ".receta",
			contains:    []string{"Tortilla de patatas", "Pelar y cortar las patatas", "Batir los huevos con sal", "El secreto está en el aceite.", "nuestra web"},
			notContains: []string{"Publicidad", "**", "https://example.com", "](", "> ", "1. "},
		},
		{
			name:        "list selector",
			html:        recipeHTML,
			selector:    "ol",
			contains:    []string{"Pelar y cortar las patatas"},
			notContains: []string{"Tortilla", "aceite"},
		},
		{
			name:        "include all",
			html:        recipeHTML,
			includeAll:  true,
			contains:    []string{"Tortilla de patatas", "Publicidad"},
			notContains: []string{"<div", "<aside"},
		},
		{
			name:        "non-existent selector",
			html:        recipeHTML,
			selector:    ".inexistente",
			expectError: true,
		},
		{
			name:        "invalid selector",
			html:        recipeHTML,
			selector:    ">>invalid<<",
			expectError: true,
		},
		{
			name:        "empty HTML",
			html:        "",
			expectEmpty: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := extract.ToText(strings.NewReader(tt.html), tt.selector, tt.includeAll, nil)

			if tt.expectError {
				if err == nil {
					t.Errorf("ToText() expected error but got none")
				}
				return
			}
			if err != nil {
				t.Fatalf("ToText() unexpected error: %v", err)
			}

			if tt.expectEmpty {
				if strings.TrimSpace(result) != "" {
					t.Errorf("ToText() expected empty result but got: %q", result)
				}
				return
			}

			for _, expected := range tt.contains {
				if !strings.Contains(result, expected) {
					t.Errorf("ToText() result should contain %q.\nResult: %s", expected, result)
				}
			}
			for _, notExpected := range tt.notContains {
				if strings.Contains(result, notExpected) {
					t.Errorf("ToText() result should not contain %q.\nResult: %s", notExpected, result)
				}
			}

			for _, line := range strings.Split(result, "\n") {
				if strings.TrimSpace(line) == "" {
					t.Errorf("ToText() result contains a blank line.\nResult: %q", result)
				}
			}
		})
	}
}

func TestStripMarkdown(t *testing.T) {
	tests := []struct {
		name     string
		markdown string
		want     string
	}{
		{"heading", "# Título principal", "Título principal"},
		{"deep heading", "### Sección", "Sección"},
		{"bullet", "- uno\n* dos\n+ tres", "uno\ndos\ntres"},
		{"ordered list", "1. primero\n2. segundo", "primero\nsegundo"},
		{"quote", "> una cita", "una cita"},
		{"strong and emphasis", "**negrita** y *cursiva*", "negrita y cursiva"},
		{"link", "ver [la receta](https://example.com/receta)", "ver la receta"},
		{"image", "![un gato](gato.png) dormido", "un gato dormido"},
		{"escaped number", `1\. no es una lista`, "1. no es una lista"},
		{"inline code", "usa `go test`", "usa go test"},
		{"rules and blank lines", "uno\n\n---\n\ndos\n===", "uno\ndos"},
		{"plain text untouched", "El perro y el gato juegan.", "El perro y el gato juegan."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := extract.StripMarkdown(tt.markdown); got != tt.want {
				t.Errorf("StripMarkdown(%q) = %q, want %q", tt.markdown, got, tt.want)
			}
		})
	}
}

func TestDocuments(t *testing.T) {
	plain := "El perro ladra.\nEl gato maúlla."
	got, err := extract.Documents([]byte(plain), "", false, nil)
	if err != nil {
		t.Fatalf("Documents(plain) unexpected error: %v", err)
	}
	if got != plain {
		t.Errorf("Documents(plain) = %q, want input unchanged", got)
	}

	got, err = extract.Documents([]byte(recipeHTML), "ol", false, nil)
	if err != nil {
		t.Fatalf("Documents(html) unexpected error: %v", err)
	}
	if got != "Pelar y cortar las patatas\nBatir los huevos con sal" {
		t.Errorf("Documents(html) = %q", got)
	}
}

func TestIsHTML(t *testing.T) {
	tests := []struct {
		name string
		data string
		want bool
	}{
		{"html document", articleHTML, true},
		{"html fragment", "<p>hola</p>", true},
		{"plain text", "El perro ladra en el parque.", false},
		{"empty", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := extract.IsHTML([]byte(tt.data)); got != tt.want {
				t.Errorf("IsHTML(%q) = %v, want %v", tt.name, got, tt.want)
			}
		})
	}
}

func TestSentences(t *testing.T) {
	text := "El perro ladra. El gato maúlla.\n\nLos niños juegan en el parque."
	got, err := extract.Sentences(text)
	if err != nil {
		t.Fatalf("Sentences() unexpected error: %v", err)
	}

	lines := strings.Split(got, "\n")
	want := []string{"El perro ladra.", "El gato maúlla.", "Los niños juegan en el parque."}
	if len(lines) != len(want) {
		t.Fatalf("Sentences() = %q, want %q", lines, want)
	}
	for i := range want {
		if lines[i] != want[i] {
			t.Errorf("Sentences()[%d] = %q, want %q", i, lines[i], want[i])
		}
	}

	empty, err := extract.Sentences("  \n ")
	if err != nil || empty != "" {
		t.Errorf("Sentences(blank) = %q, %v; want empty, nil", empty, err)
	}
}
