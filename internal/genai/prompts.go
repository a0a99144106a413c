package genai

import "fmt"

// blogPromptTemplate is the fixed instruction for single-shot blog
// generation. The title is the only variable input.
const blogPromptTemplate = `Write a short, engaging blog post about the following topic: "%s". The tone should be informative and easy to read. Do not include a title in the response, just the body of the post.`

func blogPrompt(title string) string {
	return fmt.Sprintf(blogPromptTemplate, title)
}
