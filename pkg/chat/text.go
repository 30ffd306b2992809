package chat

// User-visible strings.
const (
	DefaultTitle = "New chat"

	TextServerError  = "Server error. Please try again later."
	TextNoConnection = "No connection to the server. Check your internet connection or try again later."
	TextTimeout      = "The server took too long to respond. Please try again later."

	ClearChatPrompt = "Clear the current chat?"
)

// ExampleQuestions are offered on an empty chat.
var ExampleQuestions = []string{
	"Tell me about the programming consultations",
	"Where is the library?",
	"Which elective courses are recommended?",
}
