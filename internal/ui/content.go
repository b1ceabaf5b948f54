package ui

import (
	"fmt"
	"strings"

	"github.com/rivo/tview"
)

type entry struct {
	title string
	body  string
}

var features = []entry{
	{"AI-Powered Financial Insights", "Harness advanced AI to analyze your spending, savings, and investment patterns for smarter decision-making."},
	{"Personalized Financial Planning", "Get customized budgeting, saving, and investment plans designed around your goals and financial behavior."},
	{"Instant Loan Eligibility Check", "Quickly assess your loan eligibility and discover the best offers tailored to your credit profile."},
	{"Automated KYC & Verification", "Verify identity and documents seamlessly through AI-based KYC, ensuring security and compliance."},
	{"Smart Document Handling", "Upload and retrieve your loan documents securely from the chat."},
}

var workflow = []entry{
	{"Quick and Secure Login", "Start by logging in and setting up your FinWise profile effortlessly."},
	{"Chat with Our AI Assistant", "Tell the assistant how much you need and for how long."},
	{"Complete KYC", "Upload your PAN and Aadhaar cards when the assistant asks for them."},
	{"Underwriting", "Your credit score and pre-approved limit are checked. Larger amounts need a salary slip."},
	{"Download Your Sanction Letter", "Once approved, download the letter straight from the chat."},
}

var faqs = []entry{
	{"Who can apply for a loan on this platform?", "Any salaried individual who meets the minimum eligibility criteria such as age, income stability, and credit score can apply for a loan through our platform."},
	{"How long does loan approval take?", "Most loan applications are reviewed instantly. In some cases, manual verification may take up to 24-48 hours."},
	{"Does checking my credit score affect it?", "No. Checking your credit score through our platform is considered a soft inquiry and does not impact your credit score."},
	{"Can I repay my loan before the tenure ends?", "Yes. Prepayment or foreclosure is allowed, subject to the lender's terms. Some loans may include a small prepayment fee."},
	{"Is my personal data safe?", "Absolutely. We use industry-grade encryption and follow strict data protection policies to ensure your information remains secure."},
	{"What documents are required to apply?", "Typically, PAN card, Aadhaar card, salary slips, and bank statements are required. Document requirements may vary by lender."},
}

var supportSteps = []entry{
	{"Stage 1: Sales Conversation & Needs Assessment", "State your desired loan amount and repayment period. No documents are required."},
	{"Stage 2: Identity Verification (KYC)", "Confirm your personal details, then upload your PAN Card and Aadhaar Card (PDF or image)."},
	{"Stage 3: Underwriting & Eligibility Check", "Your credit score and pre-approved limit are evaluated. Above the limit you will be asked for your latest salary slip."},
	{"Stage 4: Final Approval & Sanction", "Download your personalized sanction letter with /download to proceed with disbursement."},
}

var testimonials = []entry{
	{"Aarav Mehta, CrediCore Pvt. Ltd.", "Finwise completely transformed how I manage my finances. The AI insights are accurate, and the planning tools are simple yet powerful."},
	{"Neha Sharma, BluePeak Analytics", "Using Finwise has made budgeting and goal tracking effortless."},
	{"Rohan Gupta, NextWave Capital", "The personalized recommendations and loan eligibility checks save me so much time and stress."},
	{"Simran Kaur, BrightLedger Solutions", "The app's design and intelligence are exceptional."},
	{"Arjun Patel, WealthSync Advisors", "Finwise helped me organize my savings, track expenses, and plan better for future investments."},
	{"Priya Nair, Nova Financials", "It gives practical insights and makes managing money stress-free."},
}

func writeEntries(b *strings.Builder, entries []entry, numbered bool) {
	for i, e := range entries {
		if numbered {
			fmt.Fprintf(b, "[yellow]%d. %s[-]\n   %s\n\n", i+1, e.title, e.body)
			continue
		}
		fmt.Fprintf(b, "[yellow]%s[-]\n   %s\n\n", e.title, e.body)
	}
}

func homeText() string {
	var b strings.Builder
	b.WriteString("[::b]Personal loans through a conversation.[::-]\n")
	b.WriteString("Apply, verify your KYC and get sanctioned without leaving the chat.\n\n")
	b.WriteString("Press [yellow]F2[-] to start chatting, [yellow]F4[-] to log in or [yellow]F5[-] to sign up.\n\n")
	b.WriteString("[::u]Features[::-]\n\n")
	writeEntries(&b, features, false)
	b.WriteString("[::u]How it works[::-]\n\n")
	writeEntries(&b, workflow, true)
	return b.String()
}

func aboutText() string {
	var b strings.Builder
	b.WriteString("Empowering customers through intelligent, conversational finance, simplifying the entire personal loan journey from initial inquiry to final sanction.\n\n")
	b.WriteString("A master agent manages the conversation and hands off to worker agents:\n\n")
	writeEntries(&b, []entry{
		{"Sales Agent", "Discusses customer needs and finalizes key loan terms such as amount, tenure and interest rate."},
		{"Verification Agent", "Confirms and validates customer KYC details against CRM records."},
		{"Underwriting Agent", "Instant approval within the pre-approved limit, a salary slip up to twice the limit, rejection beyond that or for a low score."},
		{"Sanction Letter Generator", "Produces the sanction letter as soon as the loan is approved."},
	}, false)
	return b.String()
}

func faqText() string {
	var b strings.Builder
	writeEntries(&b, faqs, false)
	b.WriteString("Still have questions? See Support ([yellow]F8[-]).\n")
	return b.String()
}

func supportText() string {
	var b strings.Builder
	b.WriteString("[::u]Checklist[::-]\n  - PAN Card\n  - Aadhaar Card\n  - Salary Slip (Conditional)\n\n")
	writeEntries(&b, supportSteps, false)
	b.WriteString("[::u]Chat commands[::-]\n")
	b.WriteString(tview.Escape(helpText()))
	return b.String()
}

func storiesText() string {
	var b strings.Builder
	for _, t := range testimonials {
		fmt.Fprintf(&b, "\"%s\"\n   [yellow]%s[-]\n\n", t.body, t.title)
	}
	return b.String()
}

type post struct {
	title    string
	category string
	tag      string
	points   []string
}

var posts = []post{
	{"How to Improve Your Credit Score", "Credit", "Updated Guide", []string{
		"Pay all EMIs and credit card bills on time.",
		"Keep your credit utilization below 30%.",
		"Avoid applying for multiple loans at once.",
		"Maintain a healthy mix of secured and unsecured loans.",
		"Check your credit report regularly for errors.",
	}},
	{"Things to Check Before Taking a Personal Loan", "Loans", "Beginner Friendly", []string{
		"Compare interest rates across lenders.",
		"Understand processing fees and hidden charges.",
		"Choose a tenure that keeps EMIs affordable.",
		"Check prepayment or foreclosure penalties.",
		"Borrow only what you actually need.",
	}},
	{"Smart Budgeting Tips for Young Professionals", "Savings", "Popular", []string{
		"Follow the 50-30-20 budgeting rule.",
		"Track expenses using budgeting apps.",
		"Build an emergency fund of at least 6 months.",
		"Avoid lifestyle inflation after salary hikes.",
		"Automate savings every month.",
	}},
	{"Understanding Interest Rates and EMIs", "Education", "Must Read", []string{
		"Lower interest rates reduce total loan cost.",
		"Longer tenure lowers EMI but increases interest paid.",
		"Fixed rates offer stability; floating rates may change.",
		"Always calculate EMI before applying for a loan.",
		"Use EMI calculators to plan better.",
	}},
	{"Common Financial Mistakes to Avoid", "Awareness", "Expert Advice", []string{
		"Ignoring insurance and emergency planning.",
		"Relying only on credit cards for expenses.",
		"Not reading loan terms carefully.",
		"Delaying investments for too long.",
		"Borrowing beyond repayment capacity.",
	}},
}

func blogText() string {
	var b strings.Builder
	b.WriteString("Simple financial tips, loan guides, and money management advice to help you make better decisions.\n\n")
	for _, p := range posts {
		fmt.Fprintf(&b, "[blue]%s[-]  [gray]%s[-]\n[::b]%s[::-]\n", p.category, p.tag, p.title)
		for _, pt := range p.points {
			fmt.Fprintf(&b, "  - %s\n", pt)
		}
		b.WriteString("\n")
	}
	return b.String()
}
