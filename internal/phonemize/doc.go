// Package phonemize produces phonemic (IPA) transcriptions of utterance text.
//
// The production implementation shells out to espeak-ng; the Phonemizer
// interface keeps the call opaque so the splitter and tests can substitute
// fakes. Output is normalized to space-separated phones with a <SPACE> token
// between words.
package phonemize
