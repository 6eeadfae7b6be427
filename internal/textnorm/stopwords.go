package textnorm

var stopwords = map[string]struct{}{}

func init() {
	for _, w := range []string{
		"a", "an", "and", "are", "as", "at", "be", "by", "for", "from", "has", "have", "if", "in",
		"into", "is", "it", "its", "of", "on", "or", "that", "the", "to", "with", "you", "your",
		"about", "across", "after", "against", "all", "also", "among", "because", "been", "before",
		"being", "between", "both", "but", "can", "did", "do", "does", "doing", "down", "during",
		"each", "else", "few", "further", "he", "her", "here", "hers", "herself", "him", "himself",
		"his", "how", "i", "itself", "just", "me", "more", "most", "my", "myself", "nor", "not",
		"now", "off", "once", "only", "other", "our", "ours", "ourselves", "out", "over", "own",
		"same", "she", "should", "so", "some", "such", "than", "their", "theirs", "them",
		"themselves", "then", "there", "these", "they", "this", "those", "through", "too", "under",
		"until", "up", "very", "was", "we", "were", "what", "when", "where", "which", "while",
		"who", "whom", "why", "will", "within", "without", "would", "yours", "yourself",
		"yourselves",
	} {
		stopwords[w] = struct{}{}
	}
}

// IsStopword reports whether a lowercased token is in the stop-word set.
func IsStopword(token string) bool {
	_, ok := stopwords[token]
	return ok
}
