package cards

// Sample returns the built-in demo deck shown when no deck file is given.
func Sample() Deck {
	return Deck{
		Name: "sample",
		Cards: []Card{
			{ID: "1", Title: "Moss Garden", Subtitle: "Kyoto", Body: "A quiet garden walk with koi and stone lanterns.", Tags: []string{"outdoors", "calm"}},
			{ID: "2", Title: "Night Market", Subtitle: "Taipei", Body: "Street food stalls until 2am. Bring cash.", Tags: []string{"food", "crowds"}},
			{ID: "3", Title: "Glacier Hike", Subtitle: "Iceland", Body: "Crampons provided. Six hours round trip.", Tags: []string{"outdoors", "hard"}},
			{ID: "4", Title: "Jazz Cellar", Subtitle: "New Orleans", Body: "Live trio, late set starts at eleven.", Tags: []string{"music", "night"}},
			{ID: "5", Title: "Ramen Counter", Subtitle: "Tokyo", Body: "Eight seats. Order from the ticket machine.", Tags: []string{"food"}},
			{ID: "6", Title: "Desert Stars", Subtitle: "Atacama", Body: "Observatory tour, dress warmly.", Tags: []string{"night", "outdoors"}},
			{ID: "7", Title: "Book Barge", Subtitle: "London", Body: "Secondhand books on a canal boat.", Tags: []string{"calm"}},
			{ID: "8", Title: "Surf Lesson", Subtitle: "Biarritz", Body: "Two hours, board and wetsuit included.", Tags: []string{"water", "hard"}},
		},
	}
}
