package cmd

import (
	"net/url"
	"strings"
	"testing"

	"github.com/jsphweid/reducely/model"
	"github.com/stretchr/testify/assert"
)

const twoPartScore = `<?xml version="1.0" encoding="UTF-8"?>
<score-partwise version="3.1">
  <part-list>
    <score-part id="P1"><part-name>Violin</part-name></score-part>
    <score-part id="P2"><part-name>Cello</part-name></score-part>
  </part-list>
  <part id="P1">
    <measure number="1">
      <attributes>
        <divisions>1</divisions>
        <key><fifths>0</fifths></key>
        <time><beats>4</beats><beat-type>4</beat-type></time>
      </attributes>
      <note><pitch><step>C</step><octave>5</octave></pitch><duration>2</duration><type>half</type></note>
      <note><pitch><step>E</step><octave>5</octave></pitch><duration>2</duration><type>half</type></note>
    </measure>
  </part>
  <part id="P2">
    <measure number="1">
      <attributes>
        <divisions>1</divisions>
        <key><fifths>0</fifths></key>
        <time><beats>4</beats><beat-type>4</beat-type></time>
      </attributes>
      <note><pitch><step>C</step><octave>3</octave></pitch><duration>4</duration><type>whole</type></note>
    </measure>
  </part>
</score-partwise>`

func TestReducePipeline(t *testing.T) {
	assert := assert.New(t)

	out, dropped, err := Reduce([]byte(twoPartScore), model.DefaultOptions())
	assert.Nil(err)
	assert.Equal(0, dropped)

	xml := string(out)
	assert.Contains(xml, "<part-name>Piano</part-name>")
	assert.Contains(xml, "<octave>5</octave>")
	assert.Contains(xml, "<octave>3</octave>")
	assert.Contains(xml, "<sign>F</sign>")
}

func TestReduceUnlimitedPhraseLength(t *testing.T) {
	assert := assert.New(t)
	opts := model.DefaultOptions()
	opts.PhraseLimit = 0

	out, _, err := Reduce([]byte(twoPartScore), opts)
	assert.Nil(err)
	assert.Contains(string(out), "<part-name>Piano</part-name>")
}

func TestReduceRejectsBadOptions(t *testing.T) {
	opts := model.DefaultOptions()
	opts.Staves = 0
	_, _, err := Reduce([]byte(twoPartScore), opts)
	assert.NotNil(t, err)
}

func TestReduceRejectsBadInput(t *testing.T) {
	_, _, err := Reduce([]byte("<score-partwise><oops"), model.DefaultOptions())
	assert.NotNil(t, err)
}

func TestOptionsFromQuery(t *testing.T) {
	assert := assert.New(t)

	opts, err := optionsFromQuery(url.Values{})
	assert.Nil(err)
	assert.Equal(model.DefaultOptions(), opts)

	q, _ := url.ParseQuery("staves=3&handspan=14&merge-by-average=true&no-merge=true&max-phrase-length=4")
	opts, err = optionsFromQuery(q)
	assert.Nil(err)
	assert.Equal(3, opts.Staves)
	assert.Equal(14, opts.Handspan)
	assert.Equal(4, opts.PhraseLimit)
	assert.True(opts.MergeByAverage)
	assert.True(opts.NoMerge)
	assert.False(opts.NoAdjustOctaves)

	_, err = optionsFromQuery(url.Values{"staves": []string{"many"}})
	assert.NotNil(err)
	_, err = optionsFromQuery(url.Values{"no-merge": []string{"sure"}})
	assert.NotNil(err)
}

func TestReduceNoMergeKeepsVoices(t *testing.T) {
	assert := assert.New(t)
	opts := model.DefaultOptions()
	opts.NoMerge = true

	out, _, err := Reduce([]byte(twoPartScore), opts)
	assert.Nil(err)
	assert.True(strings.Contains(string(out), "<voice>"))
}
