package domain

import (
	"fmt"
	"slices"
	"strings"
)

// CatalogEntry はウィザードで選択できる項目です。
type CatalogEntry struct {
	ID          string
	Label       string
	Description string
}

// Catalog は固定の選択肢の一覧です。
type Catalog []CatalogEntry

// Universes は物語の舞台となる世界観の一覧です。
var Universes = Catalog{
	{"fantasy_medieval", "Medieval Fantástico", "Dragões & Reis"},
	{"star_wars", "Guerra nas Estrelas", "Força & Sabres"},
	{"harry_potter", "Mundo Bruxo", "Magia em Hogwarts"},
	{"marvel", "Universo Marvel", "Super-heróis"},
	{"dc", "Universo DC", "Lendas da Justiça"},
	{"disney_princess", "Conto de Fadas", "Princesas & Magia"},
	{"simpsons", "Springfield", "Comédia Amarela"},
	{"cyberpunk", "Cyberpunk 2077", "High Tech Low Life"},
	{"lord_rings", "Terra Média", "Uma Jornada Épica"},
	{"pokemon", "Mundo Pokémon", "Temos que pegar!"},
	{"pirates", "Piratas", "7 Mares"},
	{"western", "Velho Oeste", "Bang Bang"},
	{"noir", "Noir Investigativo", "Mistério em P&B"},
	{"steampunk", "Steampunk", "Vapor & Engrenagens"},
	{"apocalyptic", "Pós-Apocalipse", "Sobrevivência"},
}

// Styles は画風の一覧です。
var Styles = Catalog{
	{"pixar", "Pixar 3D", "Estilo de animação moderna e fofa."},
	{"disney_2d", "Disney Clássico", "Traço tradicional 2D feito à mão."},
	{"anime", "Anime Studio Ghibli", "Traços detalhados e cores vibrantes."},
	{"comic", "Comic Book", "Estilo de quadrinhos ocidentais com hachuras."},
	{"watercolor", "Aquarela", "Pintura suave e artística."},
	{"realistic", "Fotorealista", "Como se fosse um filme live-action."},
	{"cyber_art", "Neon Digital", "Arte digital com muito brilho e neon."},
	{"claymation", "Massinha (Clay)", "Estilo stop-motion tátil."},
	{"pixel_art", "Pixel Art", "Estilo retrô de jogos 16-bit."},
	{"oil_painting", "Pintura a Óleo", "Textura clássica de tela."},
}

// Genres は文学ジャンルの一覧です。
var Genres = Catalog{
	{"epic", "Aventura Épica", ""},
	{"comedy", "Comédia", ""},
	{"romance", "Romance", ""},
	{"mystery", "Mistério", ""},
	{"horror", "Terror", ""},
	{"scifi", "Ficção Científica", ""},
	{"fantasy", "Fantasia", ""},
	{"drama", "Drama", ""},
	{"fable", "Fábula Moral", ""},
	{"thriller", "Suspense", ""},
}

// Lookup は ID に一致する項目を返します。
func (c Catalog) Lookup(id string) (CatalogEntry, bool) {
	i := slices.IndexFunc(c, func(e CatalogEntry) bool { return e.ID == id })
	if i < 0 {
		return CatalogEntry{}, false
	}
	return c[i], true
}

// IDs は全項目の ID を定義順で返します。
func (c Catalog) IDs() []string {
	ids := make([]string, len(c))
	for i, e := range c {
		ids[i] = e.ID
	}
	return ids
}

// ValidateSelection は universe/style/genre がそれぞれのカタログに含まれるかを確認します。
func ValidateSelection(universe, style, genre string) error {
	checks := []struct {
		field   string
		value   string
		catalog Catalog
	}{
		{"universe", universe, Universes},
		{"style", style, Styles},
		{"genre", genre, Genres},
	}
	for _, chk := range checks {
		if _, ok := chk.catalog.Lookup(chk.value); !ok {
			return &ValidationError{
				Field:   chk.field,
				Message: fmt.Sprintf("%q is not one of [%s]", chk.value, strings.Join(chk.catalog.IDs(), ", ")),
			}
		}
	}
	return nil
}
