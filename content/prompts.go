//
// Tencent is pleased to support the open source community by making trpc-agent-go available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-agent-go is licensed under the Apache License Version 2.0.
//
//

package content

// SystemPrompt frames every request. Kept provider-independent; encoders
// place it wherever their wire format expects system instructions.
const SystemPrompt = "You are an expert reviewer of scientific papers. " +
	"You are shown material from a paper together with a multiple-choice " +
	"question about an inconsistency in it. Answer with the letter of the " +
	"correct option and nothing else."

// afterQuestionPrompt is the fixed closing instruction appended after the
// answer options.
const afterQuestionPrompt = "The answer options are labeled with letters in " +
	"the order shown. Reply with only the letter of the correct answer " +
	"option."

// partPairIntroPrompt opens a part-pair question before the stem part.
const partPairIntroPrompt = "You are provided with a part of a scientific paper:"

// partPairQuestionPrompt follows the stem and precedes the answer options.
const partPairQuestionPrompt = "The combination with one of the other parts " +
	"within the same paper results in an inconsistency. Pick the letter of " +
	"the correct answer option."
