// Package render is the terminal presentation shell: posting tables, report
// sections and selection prompts. It holds no state and never talks to the
// network.
package render

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/cheggaaa/pb/v3"
	"github.com/dustin/go-humanize"
	"github.com/manifoldco/promptui"
	"github.com/pterm/pterm"

	"github.com/jobscout/jobscout/internal/posting"
)

// DisplayLimit caps how many postings are rendered and offered for selection.
const DisplayLimit = 30

// PostingsTable prints the ranked postings, best match first.
func PostingsTable(postings []posting.Posting) {
	data := pterm.TableData{
		{"#", "Title", "Company", "Location", "Compensation", "Score", "Exp"},
	}

	for i, p := range postings {
		if i >= DisplayLimit {
			break
		}

		expMark := pterm.Green("ok")
		if !p.ExperienceOK {
			expMark = pterm.Red("over")
		}

		data = append(data, []string{
			strconv.Itoa(i + 1),
			p.Title,
			p.Company,
			p.Location,
			Compensation(p.Compensation),
			fmt.Sprintf("%d/%d", p.TitleScore, p.SkillScore),
			expMark,
		})
	}

	if err := pterm.DefaultTable.WithHasHeader().WithData(data).Render(); err != nil {
		pterm.Error.Println(err)
	}

	if len(postings) > DisplayLimit {
		pterm.Info.Printfln("showing first %d of %s postings", DisplayLimit, humanize.Comma(int64(len(postings))))
	}
}

// Compensation colorizes the free-text compensation, red when absent.
func Compensation(comp string) string {
	comp = strings.TrimSpace(comp)
	if comp == "" || strings.EqualFold(comp, "n/a") {
		return pterm.Red("Not Available")
	}
	return pterm.Green(comp)
}

// Report prints a titled analysis report.
func Report(title, body string) {
	pterm.DefaultSection.Println(title)
	pterm.Println(body)
}

// Info prints an informational message. Expected conditions (empty results,
// missing selection) surface through here, not through errors.
func Info(format string, args ...any) {
	pterm.Info.Printfln(format, args...)
}

// Warning prints a non-fatal warning message.
func Warning(format string, args ...any) {
	pterm.Warning.Printfln(format, args...)
}

// SelectPosting prompts for one posting out of the first DisplayLimit.
func SelectPosting(postings *posting.Postings, label string) (*posting.Posting, error) {
	items := postings.Labels()
	if len(items) > DisplayLimit {
		items = items[:DisplayLimit]
	}

	prompt := promptui.Select{
		Label: label,
		Items: items,
		Size:  12,
	}

	idx, _, err := prompt.Run()
	if err != nil {
		return nil, err
	}

	return postings.Items[idx], nil
}

// SelectAction prompts for one of the given action labels.
func SelectAction(label string, actions []string) (string, error) {
	prompt := promptui.Select{
		Label: label,
		Items: actions,
	}

	_, action, err := prompt.Run()
	return action, err
}

// ChunkProgress returns a progress callback backed by a terminal progress
// bar, suitable for extract.Client.OnChunk.
func ChunkProgress() func(done, total int) {
	var bar *pb.ProgressBar
	return func(done, total int) {
		if bar == nil {
			bar = pb.StartNew(total)
		}
		bar.SetCurrent(int64(done))
		if done >= total {
			bar.Finish()
		}
	}
}
