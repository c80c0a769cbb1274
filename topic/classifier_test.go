package topic

import (
	"fmt"
	"reflect"
	"sort"
	"strings"
	"testing"
)

func classifyTopics(t *testing.T, c *Classifier, text string) []string {
	t.Helper()
	set := c.Classify(text)
	out := make([]string, 0, len(set))
	for topic := range set {
		out = append(out, topic)
	}
	sort.Strings(out)
	return out
}

func TestClassifier_Classify(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []string
	}{
		{
			name: "keyword match",
			text: "el partido de anoche estuvo increible",
			want: []string{"sports"},
		},
		{
			name: "diacritics are stripped before matching",
			text: "¡Qué golazo! El FÚTBOL es vida",
			want: []string{"sports"},
		},
		{
			name: "hashtag matches its keyword rule",
			text: "gran noche #futbol",
			want: []string{"sports"},
		},
		{
			name: "phrase match requires adjacency",
			text: "se viene una ola de calor este fin de semana",
			want: []string{"weather"},
		},
		{
			name: "phrase words apart do not match the phrase",
			text: "una ola enorme y mucho calor",
			want: []string{"weather"}, // "calor" keyword still hits
		},
		{
			name: "multiple topics in one text",
			text: "el presidente hablo del dolar y la inflacion",
			want: []string{"finance", "politics"},
		},
		{
			name: "duplicate hits collapse into a set",
			text: "futbol futbol gol gol partido",
			want: []string{"sports"},
		},
		{
			name: "empty input",
			text: "",
			want: []string{},
		},
		{
			name: "whitespace only",
			text: "   \t\n  ",
			want: []string{},
		},
		{
			name: "no rule matches",
			text: "hola amigos como estan hoy",
			want: []string{},
		},
		{
			name: "short tokens are ignored",
			text: "el la de un",
			want: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewClassifier(DefaultRules(), 0)
			got := classifyTopics(t, c, tt.text)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Classify(%q) = %v, want %v", tt.text, got, tt.want)
			}
		})
	}
}

func TestClassifier_CacheDoesNotChangeResults(t *testing.T) {
	c := NewClassifier(DefaultRules(), 0)
	text := "gol del equipo en el mundial"

	first := classifyTopics(t, c, text)
	second := classifyTopics(t, c, text) // served from cache
	if !reflect.DeepEqual(first, second) {
		t.Errorf("cached result %v differs from first result %v", second, first)
	}

	// Mutating a returned set must not leak into the cache.
	set := c.Classify(text)
	set["injected"] = struct{}{}
	third := classifyTopics(t, c, text)
	if !reflect.DeepEqual(first, third) {
		t.Errorf("result after caller mutation = %v, want %v", third, first)
	}
}

func TestClassifier_CacheEviction(t *testing.T) {
	c := NewClassifier(DefaultRules(), 3)

	// Overflow the cache, then re-classify the evicted entry.
	texts := []string{"futbol", "bolsa", "receta", "clima", "futbol"}
	for _, text := range texts {
		c.Classify(text)
	}
	got := classifyTopics(t, c, "futbol")
	if !reflect.DeepEqual(got, []string{"sports"}) {
		t.Errorf("Classify after eviction = %v, want [sports]", got)
	}
	if len(c.cache) > 3 {
		t.Errorf("cache size = %d, want <= 3", len(c.cache))
	}
}

func TestClassifier_LongInputBypassesCache(t *testing.T) {
	c := NewClassifier(DefaultRules(), 0)

	// Two long texts sharing the first 512+ chars must still classify
	// independently: over-long inputs are not cached at all.
	prefix := strings.Repeat("x ", 600)
	a := classifyTopics(t, c, prefix+"futbol")
	b := classifyTopics(t, c, prefix+"bolsa")

	if !reflect.DeepEqual(a, []string{"sports"}) {
		t.Errorf("long input a = %v, want [sports]", a)
	}
	if !reflect.DeepEqual(b, []string{"finance"}) {
		t.Errorf("long input b = %v, want [finance]", b)
	}
	if len(c.cache) != 0 {
		t.Errorf("cache size = %d, want 0 for over-long inputs", len(c.cache))
	}
}

func TestClassifyList(t *testing.T) {
	c := NewClassifier(DefaultRules(), 0)
	got := c.ClassifyList("nueva temporada en netflix")
	sort.Strings(got)
	if !reflect.DeepEqual(got, []string{"movies"}) {
		t.Errorf("ClassifyList = %v, want [movies]", got)
	}
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"  Hola   Mundo  ", "hola mundo"},
		{"FÚTBOL", "futbol"},
		{"años de acción", "anos de accion"},
		{"", ""},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprintf("%q", tt.in), func(t *testing.T) {
			if got := Normalize(tt.in); got != tt.want {
				t.Errorf("Normalize(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestTokenize(t *testing.T) {
	got := Tokenize("gran noche #futbol, vamos!!")
	want := []string{"gran", "noche", "futbol", "vamos"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Tokenize = %v, want %v", got, want)
	}
}
