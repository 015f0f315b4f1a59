package composer

import "github.com/cricbot/cricbot-go/internal/messenger"

// upcomingFixtures returns the hardcoded fixture list shown for next
// match requests. This is static content, not live schedule data.
func upcomingFixtures() []messenger.Element {
	return []messenger.Element{
		{
			Title:    "India vs Australia",
			Subtitle: "1st Test, Eden Gardens, Kolkata",
			ItemURL:  "https://www.espncricinfo.com/series",
		},
		{
			Title:    "England vs South Africa",
			Subtitle: "2nd ODI, Lord's, London",
			ItemURL:  "https://www.espncricinfo.com/series",
		},
		{
			Title:    "New Zealand vs Pakistan",
			Subtitle: "T20I series opener, Eden Park, Auckland",
			ItemURL:  "https://www.espncricinfo.com/series",
		},
		{
			Title:    "West Indies vs Sri Lanka",
			Subtitle: "Only Test, Kensington Oval, Bridgetown",
			ItemURL:  "https://www.espncricinfo.com/series",
		},
	}
}
