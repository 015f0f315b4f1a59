// Package intent matches normalized message text against a fixed rule set
// and maps quick-reply payload codes to topics. Matching is stateless;
// every message is evaluated independently.
package intent

// Kind identifies one response action.
type Kind string

// The closed set of response actions.
const (
	KindPlayerLookup    Kind = "player_lookup"
	KindExplainer       Kind = "explainer"
	KindJoke            Kind = "joke"
	KindLatestTopicMenu Kind = "latest_topic_menu"
	KindNextMatchInfo   Kind = "next_match_info"
	KindQuickReplyTopic Kind = "quick_reply_topic"
	KindEcho            Kind = "echo"
)

// Intent is one matched response action. Term carries the captured
// search term for player lookups and explainers; Topic is set only for
// quick-reply topic intents.
type Intent struct {
	Kind  Kind
	Term  string
	Topic Topic
}

// Topic is one of the fixed quick-reply menu entries. Payload is the
// code delivered when the option is tapped; Query is the content API
// filter used to fetch the topic's latest documents.
type Topic struct {
	Title   string
	Payload string
	Query   string
}

// Topics is the fixed menu presented for "latest" requests.
// Exactly 8 entries with distinct payload codes.
var Topics = []Topic{
	{Title: "Cricket", Payload: "LATEST_CRICKET_PAYLOAD", Query: "cricket"},
	{Title: "IPL", Payload: "LATEST_IPL_PAYLOAD", Query: "ipl"},
	{Title: "World Cup", Payload: "LATEST_WORLDCUP_PAYLOAD", Query: "world cup"},
	{Title: "Test cricket", Payload: "LATEST_TEST_PAYLOAD", Query: "test cricket"},
	{Title: "ODI", Payload: "LATEST_ODI_PAYLOAD", Query: "odi"},
	{Title: "T20", Payload: "LATEST_T20_PAYLOAD", Query: "t20"},
	{Title: "The Ashes", Payload: "LATEST_ASHES_PAYLOAD", Query: "ashes"},
	{Title: "Women's cricket", Payload: "LATEST_WOMEN_PAYLOAD", Query: "women cricket"},
}

// TopicByPayload resolves a quick-reply payload code to its topic.
func TopicByPayload(payload string) (Topic, bool) {
	for _, topic := range Topics {
		if topic.Payload == payload {
			return topic, true
		}
	}
	return Topic{}, false
}
