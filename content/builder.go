//
// Tencent is pleased to support the open source community by making trpc-agent-go available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-agent-go is licensed under the Apache License Version 2.0.
//
//

package content

import (
	"fmt"
	"sort"
	"strings"

	"github.com/da-luggas/prismm-bench/annotation"
	"github.com/da-luggas/prismm-bench/docstore"
	"github.com/da-luggas/prismm-bench/log"
)

// Builder renders annotations into generic content items.
type Builder struct {
	store docstore.Store
}

// NewBuilder creates a Builder backed by the given content store.
func NewBuilder(store docstore.Store) *Builder {
	return &Builder{store: store}
}

// Build renders one annotation under the given question type and context
// mode. It returns the ordered content items and the letter labeling the
// correct option after the display sort. A part_pair entry without a
// part-pair question yields empty items and no error; callers skip it.
func (b *Builder) Build(
	entry *annotation.Entry,
	docID string,
	questionType string,
	mode Mode,
) ([]Item, string, error) {
	if mode.WithoutContext {
		if questionType == annotation.TypePartPair {
			return nil, "", fmt.Errorf("%w: without-context part_pair leaves no reference content", ErrUnsupportedMode)
		}
		return b.buildWithoutContext(entry, questionType)
	}
	if questionType == annotation.TypePartPair {
		return b.buildPartPair(entry, docID)
	}
	return b.buildDefault(entry, docID, questionType, mode)
}

// buildDefault emits the part-derived blocks followed by question, sorted
// answer options and the closing instruction.
func (b *Builder) buildDefault(
	entry *annotation.Entry,
	docID string,
	questionType string,
	mode Mode,
) ([]Item, string, error) {
	mcq, err := entry.Item(questionType)
	if err != nil {
		return nil, "", err
	}
	answers, correctLetter := prepareAnswers(mcq, questionType)

	var items []Item
	if mode.WholeDoc {
		docImages, err := b.store.DocImages(docID)
		if err != nil {
			log.Errorf("resolve whole document %s: %v", docID, err)
			items = append(items, ImageItem(docstore.Placeholder()))
		}
		for _, b64 := range docImages {
			items = append(items, ImageItem(b64))
		}
	} else {
		for _, part := range entry.Parts {
			items = append(items, b.partItem(docID, part, mode.WholePage))
		}
	}

	items = append(items, TextItem(mcq.Question))
	for _, a := range answers {
		items = append(items, TextItem(a))
	}
	items = append(items, TextItem(afterQuestionPrompt))
	return items, correctLetter, nil
}

// buildWithoutContext emits only question, sorted answer options and the
// closing instruction.
func (b *Builder) buildWithoutContext(
	entry *annotation.Entry,
	questionType string,
) ([]Item, string, error) {
	mcq, err := entry.Item(questionType)
	if err != nil {
		return nil, "", err
	}
	answers, correctLetter := prepareAnswers(mcq, questionType)

	items := make([]Item, 0, len(answers)+2)
	items = append(items, TextItem(mcq.Question))
	for _, a := range answers {
		items = append(items, TextItem(a))
	}
	items = append(items, TextItem(afterQuestionPrompt))
	return items, correctLetter, nil
}

// buildPartPair renders the part-matching variant: the question stem is one
// part of the paper, the options are the candidate counterpart parts.
func (b *Builder) buildPartPair(entry *annotation.Entry, docID string) ([]Item, string, error) {
	mcq := entry.MCQ.PartPair
	if !mcq.Valid() {
		return nil, "", nil
	}

	letterToAnswer, sortedLetters := sortOptions(mcq)
	correctLetter := correctAfterSort(letterToAnswer, sortedLetters, mcq.Correct)

	items := []Item{TextItem(partPairIntroPrompt)}

	// The stem is either a part image id of this document or literal text.
	if strings.Contains(mcq.Question, docID) {
		items = append(items, b.resolveImage(mcq.Question))
	} else {
		items = append(items, TextItem(mcq.Question))
	}

	items = append(items, TextItem(partPairQuestionPrompt))

	for _, letter := range sortedLetters {
		option := letterToAnswer[letter]
		items = append(items, TextItem(letter+")"))
		if strings.Contains(option, docID) {
			items = append(items, b.resolveImage(option))
		} else {
			items = append(items, TextItem(option))
		}
	}

	items = append(items, TextItem(afterQuestionPrompt))
	return items, correctLetter, nil
}

// partItem resolves one inconsistency part to a content item. Resolution
// failures are logged and replaced with the placeholder image so a broken
// reference never aborts the run.
func (b *Builder) partItem(docID string, part annotation.Part, wholePage bool) Item {
	if wholePage {
		b64, err := b.store.PageImage(docID, part.Page)
		if err != nil {
			log.Errorf("resolve page %d of %s: %v", part.Page, docID, err)
			return ImageItem(docstore.Placeholder())
		}
		return ImageItem(b64)
	}
	if part.Type == annotation.PartImage {
		return b.resolveImage(part.ImageID)
	}
	return TextItem(part.Content)
}

func (b *Builder) resolveImage(imageID string) Item {
	b64, err := b.store.PartImage(imageID)
	if err != nil {
		log.Errorf("resolve image %s: %v", imageID, err)
		return ImageItem(docstore.Placeholder())
	}
	return ImageItem(b64)
}

// prepareAnswers orders the options by letter and renders them for display.
// Binary variants carry their letter prefix; the other variants rely on
// positional labeling described in the closing instruction.
func prepareAnswers(mcq *annotation.MCQItem, questionType string) ([]string, string) {
	letterToAnswer, sortedLetters := sortOptions(mcq)
	options := make([]string, 0, len(sortedLetters))
	for _, letter := range sortedLetters {
		if strings.Contains(questionType, "binary") {
			options = append(options, fmt.Sprintf("%s) %s", letter, letterToAnswer[letter]))
		} else {
			options = append(options, letterToAnswer[letter])
		}
	}
	return options, correctAfterSort(letterToAnswer, sortedLetters, mcq.Correct)
}

// sortOptions maps each declared letter to its answer text and returns the
// letters in display (lexicographic) order.
func sortOptions(mcq *annotation.MCQItem) (map[string]string, []string) {
	answers := append([]string{mcq.Correct}, mcq.Incorrect...)
	letterToAnswer := make(map[string]string, len(answers))
	for i, letter := range mcq.Letters {
		if i < len(answers) {
			letterToAnswer[letter] = answers[i]
		}
	}
	sortedLetters := make([]string, 0, len(letterToAnswer))
	for letter := range letterToAnswer {
		sortedLetters = append(sortedLetters, letter)
	}
	sort.Strings(sortedLetters)
	return letterToAnswer, sortedLetters
}

// correctAfterSort returns the letter that labels the correct text once the
// options are in display order.
func correctAfterSort(letterToAnswer map[string]string, sortedLetters []string, correct string) string {
	for _, letter := range sortedLetters {
		if letterToAnswer[letter] == correct {
			return letter
		}
	}
	return ""
}
