// Copyright 2026 MIRI Project. All rights reserved.

package investigate

// Prompt texts sent to the judgment service. Keyword and query prompts
// demand Korean output because the law service only indexes Korean legal
// terms; instruction prose stays in English, which the models follow more
// reliably.

const strategyPrompt = `
Analyze the legal nature of the following action/situation to decide the optimal search strategy.

[Action/Situation]
%s

[Database Characteristics]
- law (Acts, Decrees): For legal prohibitions, permissions, obligations, civil/criminal liabilities, and penalties.
- admrul (Administrative Rules): For specific criteria, monetary limits, procedures, and detailed guidelines.
- prec (Precedents): For case law interpretations, similar dispute resolutions, and judicial standards.

[Instructions]
1. Determine if this is: business regulation, contract law, criminal law, civil dispute, labor law, or general legal matter
2. If criminal/civil liability is involved, prioritize 'law' and 'prec'
3. If specific procedures or quantitative standards matter, include 'admrul'
4. For disputes or interpretation issues, include 'prec'
5. List databases in order of importance
6. Add 'Focus Keywords' for comprehensive search coverage

Output JSON:
{
    "rationale": "Reason for this strategy (English)",
    "databases": ["law", "admrul", "prec"],
    "focus_keywords": ["KoreanKeyWord1", "KoreanKeyWord2"]
}

[Important]
"focus_keywords" MUST be in KOREAN.
`

const aiQueryPrompt = `
[Task] Generate effective search queries for the 'Intelligent Bureau of Legislation Search System' (AI Search).

[User Action/Scenario]
%s

[Instructions]
- The AI Search system handles natural language but performs best with "KEY PHRASES" that describe the legal violation or topic.
- Generate 2-3 queries.
- Queries MUST be in KOREAN.
- Example: "뺑소니 처벌", "음주운전 면허취소 기준", "개인정보 유출 과태료"

Output JSON: ["query1", "query2"]
`

const precKeywordPrompt = `
User Situation/Action: "%s"
Infer 5 core legal keywords for comprehensive case law and precedent search.

[Important]
**Keywords MUST be in KOREAN** (Hangul).
The search engine only understands Korean legal terms.

Focus on:
1. Specific illegal acts or violations (e.g., "무단사용", "무등록영업", "사기")
2. Legal concepts for disputes (e.g., "손해배상", "계약해제", "부당이득")
3. Rights and obligations (e.g., "퇴직금", "보증금반환", "위자료")
4. Procedural terms if relevant (e.g., "가처분", "중재", "조정")

Examples by type:
- Business: "무등록", "불법영업", "인허가위반"
- Contract: "채무불이행", "계약해제", "손해배상"
- Labor: "부당해고", "임금체불", "근로기준위반"
- Real Estate: "명도", "임대차보호", "보증금"
- Criminal: "사기", "횡령", "배임"

Output as a JSON list of Korean strings: ["키워드1", "키워드2", ...]
`

const selectorSystemPrompt = `
You are an expert 'Legal Researcher' responsible for selecting relevant laws and precedents.

[Task]
Review the provided list of law/precedent titles and select ALL items that are RELEVANT to the user's situation.

[Selection Criteria]
1. Direct Relevance: The title explicitly mentions the issue (e.g., "unfair dismissal", "hit-and-run").
2. Broader Relevance: The law governs the domain (e.g., "Labor Standards Act" for firing).
3. Be Generous: If in doubt, INCLUDE it. It's better to analyze more than to miss critical evidence.

[Input Format]
User will provide:
- User Action/Scenario
- List of Candidates (numbered)

[Output Format]
Return ONLY a JSON array of the exact strings (names) selected from the list.
Example: ["Title 1", "Title 3"]

If NONE are relevant, return: []
`

const criticPrompt = `
[Review Mode]
User Action: "%s"
Current list of secured legal evidence:
%s

Q: Can the user's action be judged through 'legal interpretation' based solely on the evidence above?

[PASS Criteria (Relaxed)]
- If there are similar regulations or general principles, even without explicit provisions -> PASS
- If there are related limit concepts or reporting obligations, even without specific amounts -> PASS
- If reasonable inference is possible from laws alone, even without precedents -> PASS
- If there are prohibition/restriction clauses, even without penalty clauses -> PASS

[FAIL Criteria]
- If no relevant laws were found at all (completely different field)
- If too abstract to interpret in any direction

If sufficient, output "PASS". If clearly insufficient, output "FAIL" along with suggested additional keywords.

Output JSON Format:
{
    "status": "PASS" | "FAIL",
    "reason": "Reason (English)",
    "new_keywords": ["keyword1", "keyword2"]
}
`

const indexScanPrompt = `
You are analyzing a legal document to find relevant articles for a specific business action.

[Document: %s]
[Table of Contents]
%s

[Business Action to Analyze]
%s

Task:
1. Review the table of contents above
2. Identify which articles are MOST relevant to the business action
3. Select up to %d article indices (numbers only)
4. If NO articles seem relevant, return an empty list: []

Output Format (JSON array of numbers):
[0, 5, 12]

Important:
- Only select articles that are DIRECTLY related to the business action
- If unsure or no clear match, return []
- Be strict in selection to avoid irrelevant articles
`

const articleAnalysisPrompt = `
[Analysis Target: %s]
[%s]
%s

[User Action Context]
%s

Extract legal grounds related to the 'User Action Context' from the text and respond in JSON.

[Target Schema]
{
    "law_name": "%s",
    "key_clause": "%s",
    "status": "Prohibited | Permitted | Conditional | Neutral | Ambiguous",
    "summary": "해당 조항의 핵심 내용 요약 (한글 2문장 이내)"
}
If there is no relevant content at all, set the status to 'Neutral'.
`

const fullTextAnalysisPrompt = `
[Analysis Target: %s]
%s

[User Action Context]
%s

Extract legal grounds related to the 'User Action Context' from the text and respond in JSON.

[Target Schema]
{
    "law_name": "%s",
    "key_clause": "관련 조항 (예: 제3조 제1항) 없으면 빈칸",
    "status": "Prohibited | Permitted | Conditional | Neutral | Ambiguous",
    "summary": "해당 조항의 핵심 내용 요약 (한글 2문장 이내)"
}
If there is no relevant content at all, set the status to 'Neutral'.
`

const chunkAnalysisPrompt = `
[Analysis Target: %s (Part %d/%d)]
%s

[User Action Context]
%s

If there are legal grounds (prohibition, permission, penalty, etc.) related to the 'User Action Context' in this text chunk, extract them.
If it's difficult to judge due to broken context, set the status to 'Neutral'.

[Target Schema]
{
    "law_name": "%s",
    "key_clause": "조항 번호",
    "status": "Prohibited | Permitted | Conditional | Neutral",
    "summary": "요약"
}
`
