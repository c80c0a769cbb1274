package topic

// DefaultRules 是内置的分类词表（西语为主，混合常见英文词）。
// 生产环境建议用 LoadRules 从 YAML 下发，这份表用于开发与兜底。
func DefaultRules() []Rule {
	return []Rule{
		{
			Topic:    "sports",
			Keywords: []string{"futbol", "gol", "partido", "liga", "mundial", "basket", "tenis", "deporte", "jugador", "equipo"},
			Hashtags: []string{"#futbol", "#mundial", "#nba"},
			Phrases:  []string{"champions league", "copa del mundo", "juegos olimpicos"},
		},
		{
			Topic:    "finance",
			Keywords: []string{"bolsa", "dolar", "euro", "acciones", "inversion", "banco", "credito", "inflacion", "bitcoin", "cripto"},
			Hashtags: []string{"#bolsa", "#bitcoin"},
			Phrases:  []string{"tipo de cambio", "mercado de valores", "tasa de interes"},
		},
		{
			Topic:    "technology",
			Keywords: []string{"tecnologia", "software", "telefono", "android", "iphone", "computadora", "internet", "robot", "videojuego"},
			Hashtags: []string{"#tech", "#gaming"},
			Phrases:  []string{"inteligencia artificial", "realidad virtual"},
		},
		{
			Topic:    "music",
			Keywords: []string{"musica", "cancion", "concierto", "album", "banda", "cantante", "reggaeton", "cumbia"},
			Hashtags: []string{"#musica"},
			Phrases:  []string{"nueva cancion", "gira mundial"},
		},
		{
			Topic:    "movies",
			Keywords: []string{"pelicula", "cine", "serie", "estreno", "actor", "actriz", "netflix", "trailer"},
			Hashtags: []string{"#cine", "#series"},
			Phrases:  []string{"nueva temporada"},
		},
		{
			Topic:    "politics",
			Keywords: []string{"gobierno", "presidente", "elecciones", "congreso", "ley", "politica", "ministro", "votacion"},
			Hashtags: []string{"#elecciones"},
			Phrases:  []string{"campana electoral", "reforma fiscal"},
		},
		{
			Topic:    "food",
			Keywords: []string{"receta", "comida", "restaurante", "cocina", "asado", "postre", "tacos", "pizza"},
			Hashtags: []string{"#foodie", "#receta"},
			Phrases:  []string{"comida casera"},
		},
		{
			Topic:    "travel",
			Keywords: []string{"viaje", "playa", "vuelo", "hotel", "turismo", "vacaciones", "montana", "aventura"},
			Hashtags: []string{"#viajes", "#travel"},
			Phrases:  []string{"fin de semana largo"},
		},
		{
			Topic:    "weather",
			Keywords: []string{"clima", "lluvia", "tormenta", "huracan", "calor", "frio", "nieve", "granizo"},
			Hashtags: []string{"#clima"},
			Phrases:  []string{"ola de calor", "frente frio", "alerta meteorologica"},
		},
		{
			Topic:    "health",
			Keywords: []string{"salud", "ejercicio", "gimnasio", "dieta", "vacuna", "hospital", "medico", "bienestar"},
			Hashtags: []string{"#fitness", "#salud"},
			Phrases:  []string{"salud mental"},
		},
	}
}
