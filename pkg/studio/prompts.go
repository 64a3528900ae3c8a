package studio

import (
	"maps"
	"sync"
)

// Formatting styles.
const (
	StyleSocial  = "social"
	StyleBlog    = "blog"
	StyleMinimal = "minimal"
)

// Generation styles. StyleBlog is shared with formatting.
const (
	StyleNews  = "news"
	StyleEssay = "essay"
	StyleDiary = "diary"
	StyleStory = "story"
)

// Fallback styles used when a requested style has no template.
const (
	DefaultFormatStyle   = StyleSocial
	DefaultGenerateStyle = StyleNews
)

// FormatterSystemPrompt is the system message of every formatting request.
const FormatterSystemPrompt = "You are an expert formatter who transforms user text into well-structured, formatted content. You never add extra information or substantially change the meaning of the text. You support markdown formatting. Keep the same language as the input text."

// GeneratorSystemPrompt is the system message of every generation request.
const GeneratorSystemPrompt = "You are an expert content generator who creates engaging and informative text based on user input. You never add extra information or substantially change the meaning of the text. You support markdown formatting. Keep the same language as the input text."

var defaultFormatPrompts = map[string]string{
	StyleSocial:  "You are a social media copywriter. Format the following text into an engaging social media post using markdown. Use emojis, hashtags, and make it attention-grabbing. Keep it concise and impactful. Split into paragraphs, use bullet points if necessary, and emphasize key points:",
	StyleBlog:    "You are a professional blog writer. Format the following text into a well-structured blog post using markdown. Add a catchy title, headings, subheadings, and organize the content logically. Use formatting such as bold, italic, bullet points, and quotes to enhance readability. Make it engaging, informative, and SEO-friendly:",
	StyleMinimal: "You are a minimalist writer. Format the following text into a clean, elegant output using markdown. Remove any unnecessary words, use simple formatting, and organize the content in a clear, concise manner. Focus on essential information only:",
}

var defaultGeneratePrompts = map[string]string{
	StyleNews:  "You are a professional journalist. Create a detailed newspaper article based on the following topic or keywords. Use a formal journalistic style with a catchy headline, subheadings, and well-structured paragraphs. Include potential quotes or statistics. Write in an informative, factual manner with an objective tone:",
	StyleBlog:  "You are a professional blog writer. Create a comprehensive blog post based on the following topic or keywords. Include a catchy title, engaging introduction, clearly structured body with headings and subheadings, and a conclusion with a call to action. Use a conversational tone that connects with readers while providing valuable information:",
	StyleEssay: "You are an academic writer. Create a well-structured essay based on the following topic or keywords. Include an introduction with a clear thesis statement, logically organized body paragraphs with topic sentences and supporting evidence, and a conclusion that synthesizes the main points. Use a formal academic tone and appropriate citations where needed:",
	StyleDiary: "You are writing a personal diary entry. Create an intimate, reflective diary entry based on the following topic or keywords. Use a first-person perspective with emotional depth, personal reflections, and sensory details. The tone should be authentic, vulnerable, and introspective, as if writing for yourself:",
	StyleStory: "You are a creative fiction writer. Create a short story based on the following topic or keywords. Develop a brief but engaging narrative with a clear beginning, middle, and end. Include vivid descriptions, character development, and dialogue where appropriate. The story should evoke emotion and create a memorable impression:",
}

// DefaultFormatPrompts returns a copy of the built-in formatting templates.
func DefaultFormatPrompts() map[string]string {
	return maps.Clone(defaultFormatPrompts)
}

// DefaultGeneratePrompts returns a copy of the built-in generation templates.
func DefaultGeneratePrompts() map[string]string {
	return maps.Clone(defaultGeneratePrompts)
}

// Templates is a snapshot of both prompt maps.
type Templates struct {
	Format   map[string]string `json:"format"`
	Generate map[string]string `json:"generate"`
}

// PromptBook holds the active prompt templates.
// It is safe for concurrent use.
type PromptBook struct {
	mu       sync.RWMutex
	format   map[string]string
	generate map[string]string
}

// NewPromptBook creates a PromptBook with the built-in templates.
func NewPromptBook() *PromptBook {
	return &PromptBook{
		format:   DefaultFormatPrompts(),
		generate: DefaultGeneratePrompts(),
	}
}

// Set replaces the templates. Nil maps leave the corresponding set unchanged.
// Built-in styles missing from a new map keep their default template.
func (b *PromptBook) Set(t Templates) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if t.Format != nil {
		b.format = mergeDefaults(defaultFormatPrompts, t.Format)
	}
	if t.Generate != nil {
		b.generate = mergeDefaults(defaultGeneratePrompts, t.Generate)
	}
}

// Templates returns a copy of the active templates.
func (b *PromptBook) Templates() Templates {
	b.mu.RLock()
	defer b.mu.RUnlock()

	return Templates{
		Format:   maps.Clone(b.format),
		Generate: maps.Clone(b.generate),
	}
}

// FormatPrompt returns the formatting template for style, falling back to social.
func (b *PromptBook) FormatPrompt(style string) string {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if p, ok := b.format[style]; ok && p != "" {
		return p
	}
	return b.format[DefaultFormatStyle]
}

// GeneratePrompt returns the generation template for style, falling back to news.
func (b *PromptBook) GeneratePrompt(style string) string {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if p, ok := b.generate[style]; ok && p != "" {
		return p
	}
	return b.generate[DefaultGenerateStyle]
}

func mergeDefaults(defaults, overrides map[string]string) map[string]string {
	out := maps.Clone(defaults)
	for k, v := range overrides {
		if v != "" {
			out[k] = v
		}
	}
	return out
}
