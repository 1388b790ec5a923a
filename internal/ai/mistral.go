// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package ai

// newMistral creates a Mistral provider on the OpenAI-compatible client.
func newMistral(cfg ProviderConfig) *chatProvider {
	return newChatProvider("mistral", "https://api.mistral.ai/v1", cfg)
}
