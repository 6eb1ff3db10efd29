// Package gatepass generates gate pass documents from a submitted form.
//
// # Quick Start
//
// Create a service around a DOCX template and generate a pass:
//
//	svc := gatepass.NewService("templates/gatepass_template.docx",
//	    gatepass.WithStaticDir("static"),
//	    gatepass.WithBaseURL("https://gate.example.edu"),
//	)
//	defer svc.Close()
//
//	art, err := svc.Generate(ctx, gatepass.Submission{
//	    Name:        "Asha",
//	    RollNo:      "21CS10",
//	    DateFrom:    "2024-05-01",
//	    DateTo:      "2024-05-03",
//	    ArrivalDate: "2024-05-01",
//	    ArrivalTime: "10:00",
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(art.URL)
//
// # Pipeline
//
// Generate runs these stages in order and stops at the first failure:
//
//  1. Validating: every required field is present and not blank
//  2. GeneratingQR: the public URL of the pass is encoded as a PNG
//  3. Filling: {field} placeholders are substituted and {qr_code} is
//     replaced by the embedded image (or the image is appended)
//  4. Converting: LibreOffice converts the filled DOCX (PDF by default)
//
// Failures are returned as *StageError; use errors.Is with the sentinel
// errors (ErrMissingFields, ErrTemplateFill, ErrConversion, ...) to
// classify them.
//
// # Storage Layout
//
// Passes are written under the static directory:
//
//	static/
//	└── gatepasses/
//	    └── 2024-05-01/
//	        ├── Asha_GatePass.docx
//	        └── Asha_GatePass.pdf
//
// Each run builds its files in a private staging directory and moves them
// into place only after conversion succeeds, so the URL encoded in the QR
// code never points to a half-written file.
//
// # Converter Requirements
//
// Conversion requires LibreOffice. The binary is looked up as "soffice",
// then "libreoffice", on PATH unless WithConverterBinary is given. Every
// conversion uses a throwaway user profile and is killed, with its child
// processes, when the timeout elapses.
package gatepass
