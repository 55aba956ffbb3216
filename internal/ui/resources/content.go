// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package resources

// Content is the markdown shown on the page.
const Content = `## Box breathing

1. Breathe in through your nose for a count of four.
2. Hold for four.
3. Breathe out slowly for four.
4. Hold for four, then repeat for a few minutes.

## 5-4-3-2-1 grounding

When thoughts are racing, name:

- **5** things you can see
- **4** things you can touch
- **3** things you can hear
- **2** things you can smell
- **1** thing you can taste

## Journaling prompts

- What is taking up the most space in my mind right now?
- What went better today than I expected?
- What would I say to a friend who felt the way I feel?
- What is one small thing I can do for myself tomorrow?

## When you need more support

- In the US, call or text **988** to reach the Suicide & Crisis Lifeline.
- Elsewhere, find a local line at **findahelpline.com**.
- If you are in immediate danger, call your local emergency number.

Psy is a companion for reflection. It does not replace a licensed therapist.
`
