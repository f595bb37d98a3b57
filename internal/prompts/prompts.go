package prompts

import (
	"encoding/json"
	"fmt"
	"strings"

	"coursegen/internal/models"
)

// ===== Course Layout =====

// CourseLayoutSystemPrompt instructs the model to act as a course architect returning a layout as JSON
func CourseLayoutSystemPrompt() string {
	return `
You are an expert AI Course Architect for an AI-powered Video Course Generator platform.

Your task is to generate a structured, clean, and production-ready COURSE CONFIGURATION in strict JSON format.

IMPORTANT RULES:
- Output ONLY valid JSON.
- Do NOT include markdown.
- Do NOT include explanations.
- Do NOT include HTML, slides, TailwindCSS, animations, or narration text.
- This configuration will be used in the NEXT step to generate animated slides and TTS narration.
- Keep everything beginner-friendly, clear, and logically structured.
- Keep content concise.
- Limit each chapter to MAXIMUM 3 subContent points.
- Each chapter should be suitable for 1-3 short animated slides.

--------------------------------------------

COURSE CONFIG STRUCTURE REQUIREMENTS:

Top-Level Fields:
- courseId (short, slug-style string, lowercase, hyphen-separated)
- courseName (clear and engaging title)
- courseDescription (2-3 simple, engaging lines)
- level (Beginner | Intermediate | Advanced)
- totalChapters (number)
- chapters (array, dynamic length based on topic breadth)

Each chapter object must contain:
- chapterId (slug-style, unique)
- chapterTitle (clear and concise)
- subContent (array of strings, max 3 items)

--------------------------------------------

CONTENT GUIDELINES:

- Chapters must follow a logical learning progression.
- Start from fundamentals, then move to practical usage.
- Avoid overly advanced jargon unless level is Advanced.
- Make topics practical and example-driven.
- Keep phrasing simple and easy to narrate.
- Ensure smooth learning flow between chapters.
- Avoid repetition across chapters.
- Make content suitable for short-form educational video format.
- The number of chapters MUST be decided by topic complexity:
  - small/narrow topics: 3-4 chapters
  - medium topics: 5-7 chapters
  - broad/deep topics: 8-12 chapters
- totalChapters MUST exactly match chapters.length.

--------------------------------------------

Now generate the course configuration based on the user's topic.
Return ONLY valid JSON.
`
}

// CourseLayoutUserPrompt builds the per-request layout instruction
func CourseLayoutUserPrompt(userInput, courseID, courseType string) string {
	return fmt.Sprintf(
		"Generate a course configuration for: %s with courseId: %s and type: %s\n"+
			"Choose chapter count dynamically based on topic depth. Do not force 3 chapters.",
		userInput, courseID, courseType,
	)
}

// ===== Chapter Notes =====

// NotesSystemPrompt sets the revision-notes persona
func NotesSystemPrompt() string {
	return "You are an expert teacher creating high-quality revision notes."
}

// NotesUserPrompt builds the markdown notes request for one chapter and its selected video
func NotesUserPrompt(courseName string, chapter models.ChapterInput, video *models.VideoReference) string {
	var title, description, url, channel *string
	if video != nil {
		title, description, url, channel = video.Title, video.Description, video.WatchURL, video.ChannelTitle
	}

	return fmt.Sprintf(`Generate clean, student-friendly notes in MARKDOWN for this topic:

Course: %s
Chapter: %s
Subtopics: %s
Selected YouTube Video Title: %s
Selected YouTube Video Description: %s
Selected YouTube Video URL: %s
Selected YouTube Channel: %s

Requirements:
1) Return markdown only.
2) Keep notes specific to the chapter topic only (no broad full-course coverage).
3) Structure strictly with these sections:
   - # Topic Notes: <chapter title>
   - ## Quick Summary
   - ## Key Concepts
   - ## Detailed Explanation
   - ## Practical Examples
   - ## Common Mistakes to Avoid
   - ## Revision Checklist
   - ## Quick Self-Test (5 questions)
   - ## 1-Minute Recap
4) Make it easy for revision: concise bullets, short paragraphs, clear terms.
5) Mention the selected video as a reference at the end under: ## Video Reference
6) Do not include HTML or code fences unless absolutely needed.
`,
		orDefault(courseName, "Untitled Course"),
		chapter.ChapterTitle,
		strings.Join(chapter.SubContent, ", "),
		deref(title), deref(description), deref(url), deref(channel),
	)
}

// ===== Mock Test =====

// MockTestSystemPrompt sets the exam-creator persona
func MockTestSystemPrompt() string {
	return "You are an expert exam creator. Create an online mock test as pure JSON array only."
}

// MockTestUserPrompt builds the question-generation instructions.
// chapterSummary is one "{n}. {title} -> {topics}" line per chapter.
func MockTestUserPrompt(courseName, level, chapterSummary string, totalQuestions int) string {
	if chapterSummary == "" {
		chapterSummary = "General concepts from the course"
	}
	return fmt.Sprintf(`Rules:
- Create exactly %d multiple-choice questions.
- Difficulty: mixed (easy/medium/hard) suitable for %s learners.
- Context course: %s
- Focus on these chapters/topics:
%s
- Each question object MUST contain:
  - question (string)
  - options (array of exactly 4 strings)
  - correctAnswer (must match one option exactly)
  - explanation (1-2 lines)
- No markdown, no code fences, no extra keys.

Output format example:
[
  {
    "question": "...",
    "options": ["A", "B", "C", "D"],
    "correctAnswer": "A",
    "explanation": "..."
  }
]`, totalQuestions, level, courseName, chapterSummary)
}

// ===== Chapter Slides =====

// SlidesSystemPrompt describes the slide schema and reveal system
func SlidesSystemPrompt() string {
	return `
You are an expert instructional designer and motion UI engineer.

INPUT (you will receive a single JSON object):
{
  "courseName": string,
  "chapterTitle": string,
  "chapterSlug": string,
  "subContent": string[] // length 1-3, each item becomes 1 slide
}

TASK:
Generate a SINGLE valid JSON ARRAY of slide objects.
Return ONLY JSON (no markdown, no commentary, no extra keys).

SLIDE SCHEMA (each slide must match exactly):
{
  "slideId": string,
  "slideIndex": number,
  "title": string,
  "subtitle": string,
  "audioFileName": string,
  "narration": {"fullText": string},
  "html": string,
  "revealData": string[]
}

RULES:
- Generate EXACTLY subContent.length slides (if 3 items, create 3 slides)
- Each subContent item maps to ONE slide
- slideIndex MUST start at 1 and increment by 1
- slideId MUST be: "${chapterSlug}-0${slideIndex}"
- audioFileName MUST be: "${slideId}.mp3"
- narration.fullText MUST be 3-6 friendly, professional, teacher-style sentences
- narration text MUST NOT contain reveal tokens or keys ("r1", "data-reveal", etc.)

REVEAL SYSTEM:
- Each narration sentence maps to one reveal key in order: r1, r2, r3...
- revealData MUST be an array of these keys in order
- The HTML MUST include matching elements using data-reveal="r1", data-reveal="r2", etc.
- All reveal elements MUST start hidden using the class "reveal"
- Do NOT add any JS logic for reveal

HTML REQUIREMENTS:
- Must use Tailwind CDN: <script src="https://cdn.tailwindcss.com"></script>
- MUST render in an exact 16:9 frame: 1280x720px
- Style: dark, clean, gradient, course/presentation look
- Use ONLY inline <style> for animations
- MUST include the reveal CSS:
  .reveal { opacity: 0; transform: translateY(12px); }
  .reveal.is-on { opacity: 1; transform: translateY(0); }

Output MUST be valid JSON ONLY: an array of slide objects, no trailing commas, no comments, no extra fields.
`
}

// SlidesUserPrompt encodes the chapter as the JSON input object the system prompt describes
func SlidesUserPrompt(courseName, chapterTitle, chapterSlug string, subContent []string) string {
	payload, _ := json.Marshal(map[string]interface{}{
		"courseName":   courseName,
		"chapterTitle": chapterTitle,
		"chapterSlug":  chapterSlug,
		"subContent":   subContent,
	})
	return string(payload)
}

func orDefault(s, def string) string {
	if strings.TrimSpace(s) == "" {
		return def
	}
	return s
}

func deref(s *string) string {
	if s == nil || *s == "" {
		return "N/A"
	}
	return *s
}
