// Package contract renders license agreements from the configured license
// terms and a purchase record.
package contract

import (
	"bytes"
	"fmt"
	"html/template"
	"time"

	"beatstore/model"
)

// Data is everything a rendered contract needs.
type Data struct {
	BuyerName     string
	BeatTitle     string
	Tier          model.Tier
	PriceDollars  float64
	PurchaseDate  time.Time
	ProducerName  string
	ProducerEmail string
}

// FileName suggests a download name for the rendered contract.
func (d Data) FileName() string {
	return fmt.Sprintf("%s_%s_License.html", d.BeatTitle, d.Tier)
}

var contractTmpl = template.Must(template.New("contract").Parse(`<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <title>{{.Terms.Name}} - {{.BeatTitle}}</title>
    <style>
        body { font-family: Arial, sans-serif; line-height: 1.6; margin: 40px; color: #333; }
        .header { text-align: center; border-bottom: 3px solid #000; padding-bottom: 20px; margin-bottom: 30px; }
        .section { margin: 20px 0; }
        .signature { margin-top: 50px; border-top: 1px solid #ccc; padding-top: 20px; }
        .highlight { background-color: #f0f0f0; padding: 10px; border-left: 4px solid #000; }
        h1 { color: #000; margin-bottom: 10px; }
        h2 { color: #333; border-bottom: 1px solid #ccc; padding-bottom: 5px; }
        ul { list-style-type: none; padding-left: 0; }
        li { margin: 8px 0; padding-left: 20px; position: relative; }
        li:before { content: "\2022"; position: absolute; left: 0; color: #000; }
    </style>
</head>
<body>
    <div class="header">
        <h1>{{.Terms.Name}}</h1>
        <h2>Beat: "{{.BeatTitle}}"</h2>
    </div>

    <div class="section">
        <p><strong>This License Agreement</strong> is made on <strong>{{.Date}}</strong></p>
        <p><strong>BETWEEN:</strong></p>
        <p><strong>Producer:</strong> {{.ProducerName}} ({{.ProducerEmail}})</p>
        <p><strong>Licensee:</strong> {{.BuyerName}}</p>
    </div>

    <div class="section highlight">
        <h3>License Terms</h3>
        <ul>
            <li><strong>Streaming Limit:</strong> {{.Terms.Streams}} streams</li>
            <li><strong>Digital Sales:</strong> {{.Terms.Sales}} downloads/sales</li>
            <li><strong>Music Videos:</strong> {{.Terms.Videos}}</li>
            <li><strong>Live Performances:</strong> {{.Terms.Performances}}</li>
            <li><strong>Publishing Rights:</strong> {{.Terms.Publishing}}</li>
        </ul>
    </div>

    <div class="section">
        <h3>What You CAN Do</h3>
        <ul>
            {{range .Terms.CanDo}}<li>{{.}}</li>{{end}}
        </ul>
    </div>

    <div class="section">
        <h3>What You CANNOT Do</h3>
        <ul>
            {{range .Terms.CannotDo}}<li>{{.}}</li>{{end}}
        </ul>
    </div>

    <div class="section">
        <h3>Payment Details</h3>
        <p><strong>License Fee:</strong> ${{printf "%.2f" .PriceDollars}}</p>
        <p><strong>Purchase Date:</strong> {{.Date}}</p>
        <p><strong>License Type:</strong> {{.Terms.Name}}</p>
    </div>

    <div class="section">
        <h3>Legal Terms</h3>
        <p>This license is <strong>NON-EXCLUSIVE</strong>. The producer retains full copyright ownership and may license this beat to other artists.</p>
        <p>This license is valid in perpetuity for the specific recording created by the licensee.</p>
        <p>All rights not expressly granted herein are reserved by the producer.</p>
    </div>

    <div class="signature">
        <h3>Agreement</h3>
        <p>By purchasing this license, {{.BuyerName}} agrees to abide by all terms and conditions outlined in this agreement.</p>

        <div style="display: flex; justify-content: space-between; margin-top: 30px;">
            <div>
                <p><strong>Producer:</strong></p>
                <p>_________________________</p>
                <p>{{.ProducerName}}</p>
            </div>
            <div>
                <p><strong>Licensee:</strong></p>
                <p>_________________________</p>
                <p>{{.BuyerName}}</p>
            </div>
        </div>
    </div>

    <div style="text-align: center; margin-top: 50px; font-size: 12px; color: #666;">
        <p>This license was generated automatically on {{.Date}}</p>
        <p>For questions, contact: {{.ProducerEmail}}</p>
    </div>
</body>
</html>
`))

type templateData struct {
	Data
	Terms model.LicenseTierTerms
	Date  string
}

// GenerateHTML renders the license agreement for one purchase. terms is the
// full configured document; the purchased tier's section is selected here.
func GenerateHTML(data Data, terms model.LicenseTerms) (string, error) {
	var buf bytes.Buffer
	err := contractTmpl.Execute(&buf, templateData{
		Data:  data,
		Terms: terms.Get(data.Tier),
		Date:  data.PurchaseDate.Format("January 2, 2006"),
	})
	if err != nil {
		return "", fmt.Errorf("failed to render contract: %w", err)
	}
	return buf.String(), nil
}
