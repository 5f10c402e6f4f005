package mcpserver

// CatalogFormatContract describes the YAML catalog format for LLM consumers
// that draft or review project entries.
const CatalogFormatContract = `# Folio Catalog Format

The catalog is a single YAML document with a profile and an ordered list of projects.

## Structure

` + "```" + `yaml
profile:
  name: Owner Name
  role: Short role line
  blurb: One paragraph about the owner.
  links:
    github: https://github.com/owner     # OPTIONAL
    resume: https://example.com/cv.pdf   # OPTIONAL
    linkedin: https://linkedin.com/in/x  # OPTIONAL

projects:
  - id: unique-id            # REQUIRED, unique across the catalog
    title: Display title     # REQUIRED
    date: "2025-06-05"       # REQUIRED, ISO date (YYYY-MM-DD) for sorting
    tags: [go, numerics]     # OPTIONAL, matched case-insensitively
    summary: One paragraph.  # OPTIONAL, searched by the text filter
    links:
      code: https://...      # OPTIONAL
      demo: https://...      # OPTIONAL
    # Exactly one write-up form:
    paper:                   # inline paper
      abstract: ...
      data: ...
      methods: ...
      approach: ...
      findings: ...
      conclusions: ...
    # or a Markdown file in a public GitHub repository
    repo: owner/name         # full https://github.com/owner/name URLs are accepted
    summary_md: docs/paper.md  # OPTIONAL, defaults to README.md
` + "```" + `

## Rules

1. **Exactly one write-up.** A project has either ` + "`" + `paper` + "`" + ` or ` + "`" + `repo` + "`" + `, never both.
2. **` + "`" + `summary_md` + "`" + ` needs ` + "`" + `repo` + "`" + `.** It is the path inside the repository.
3. **Remote write-ups** are fetched from the ` + "`" + `main` + "`" + ` branch, then ` + "`" + `master` + "`" + `.
4. **Dates** that do not parse as YYYY-MM-DD sort after all dated projects.
5. **Ordering** of equal dates follows the catalog order.
`
