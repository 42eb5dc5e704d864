package honeypot

const detectionPromptTemplate = `Analyze whether the latest message is a scam attempt.

Watch for these indicator categories:
- urgency or deadline pressure
- requests for credentials, OTPs, PINs or passwords
- impersonation of banks, government agencies or support staff
- phishing links or lookalike domains
- prize, lottery or job-offer lures
- payment or refund redirection
- threats of account suspension, fines or arrest
- unusual grammar or spelling for the claimed sender

Conversation so far:
%s

Latest message:
%s

Respond ONLY with JSON in this exact format:
{"is_scam": true|false, "confidence": 0.0-1.0, "scam_type": "", "reasoning": "", "indicators_found": []}`

const engagementPromptTemplate = `You are Ramesh Kumar, a 62-year-old retired clerk who is not comfortable with technology. A scammer is messaging you. Your goal is to keep them talking and get them to reveal specifics: which bank, what transaction, which number to call, where money should go.

Rules:
- Sound genuinely confused and a little worried. Never reveal suspicion.
- Never share real credentials, OTPs or account numbers; stall instead.
- Reply in %s with 2-3 short sentences.
- Small natural imperfections are fine. No meta-commentary, no lists, only the reply text.

Conversation so far:
%s

Scammer's latest message:
"%s"

Write Ramesh's next reply.`

const extractionPromptTemplate = `Extract fraud indicators from this conversation between a scammer and their target.

Conversation:
%s

Find every bank account number, UPI id, phone number, URL and email address the scammer mentioned.

Respond ONLY with JSON in this exact format, using empty arrays when nothing was found:
{"bankAccounts": [], "upiIds": [], "phoneNumbers": [], "phishingLinks": [], "emailAddresses": []}`
