// Package guide holds the setup help shown by `mistralchat guide` and /guide.
package guide

import (
	"fmt"
	"sort"
	"strings"
)

const (
	DocsURL   = "https://docs.mistral.ai/"
	AuthorURL = "https://github.com/bread-thief/"
)

// Topic is one help page.
type Topic struct {
	Name       string
	Header     string
	Paragraphs []string
	URL        string
}

var topics = map[string]Topic{
	"apikey": {
		Name:   "apikey",
		Header: "How to get an API key from Mistral AI?",
		Paragraphs: []string{
			"Sign up or sign in: you need an account with Mistral AI. If you don't have one, sign up on their platform; otherwise sign in.",
			"Go to the API section: once signed in, open the part of the console where API keys are managed.",
			"Generate an API key: choose the option to generate a new key, enter a key name and pick an expiration date.",
			"Copy the API key: once the key is generated, copy it and store it with 'mistralchat config set --prompt-key'.",
		},
		URL: "https://console.mistral.ai/",
	},
	"apiurl": {
		Name:   "apiurl",
		Header: "Which API URL should be used?",
		Paragraphs: []string{
			"The API URL is the chat-completions endpoint of the Mistral API. The default is " +
				"https://api.mistral.ai/v1/chat/completions; check the platform documentation for the exact address.",
		},
		URL: "https://docs.mistral.ai/api/",
	},
	"models": {
		Name:   "models",
		Header: "Which model to choose?",
		Paragraphs: []string{
			"MistralNemo (open-mistral-nemo), MistralSmall (mistral-small-latest) and CodestralMamba (open-codestral-mamba) are supported.",
			"More information about the models can be found in the models overview of the official documentation.",
		},
		URL: "https://docs.mistral.ai/getting-started/models/models_overview/",
	},
}

// Lookup returns the topic with the given name, ignoring case.
func Lookup(name string) (Topic, bool) {
	t, ok := topics[strings.ToLower(strings.TrimSpace(name))]
	return t, ok
}

// Names lists the topic names in sorted order.
func Names() []string {
	names := make([]string, 0, len(topics))
	for name := range topics {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Render formats the topic as plain text.
func (t Topic) Render() string {
	var sb strings.Builder
	sb.WriteString(t.Header)
	sb.WriteString("\n\n")
	for _, p := range t.Paragraphs {
		sb.WriteString(p)
		sb.WriteString("\n\n")
	}
	fmt.Fprintf(&sb, "More: %s\n", t.URL)
	return sb.String()
}

// Index is the listing shown when no topic is named.
func Index() string {
	var sb strings.Builder
	sb.WriteString("Guide topics:\n")
	for _, name := range Names() {
		fmt.Fprintf(&sb, "  %-8s %s\n", name, topics[name].Header)
	}
	fmt.Fprintf(&sb, "Documentation: %s\n", DocsURL)
	return sb.String()
}
