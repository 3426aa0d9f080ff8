package llm

// SummaryPrompt instructs the model to produce the markdown summary embedded
// into the generated pages. The output must be written in Traditional
// Chinese; callers verify the Han character ratio and retry when the model
// drifts into another language.
const SummaryPrompt = `你是一位專業的內容編輯。使用者會提供一段影片逐字稿，請用繁體中文撰寫重點摘要。

要求：
- 以 Markdown 條列式整理影片的重點內容
- 保留原文中的專有名詞與人名
- 摘要長度約 200 到 400 字
- 只輸出摘要本身，不要加上前言或結語`
