package model

type Mood struct {
	Min   int
	Emoji string
	Label string
}

// Moods is ordered from happiest to saddest; the first entry whose Min is reached wins.
var Moods = []Mood{
	{Min: 80, Emoji: "🤩", Label: "Ecstatic"},
	{Min: 60, Emoji: "😄", Label: "Happy"},
	{Min: 40, Emoji: "😊", Label: "Okay"},
	{Min: 20, Emoji: "😐", Label: "Sad"},
	{Min: 0, Emoji: "😢", Label: "Very sad"},
}

func MoodFor(happiness int) Mood {
	happiness = ClampHappiness(happiness)
	for _, m := range Moods {
		if happiness >= m.Min {
			return m
		}
	}
	return Moods[len(Moods)-1]
}
