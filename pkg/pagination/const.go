package pagination

// PageDefault is the page used when none (or garbage) is supplied
const PageDefault = 1

// PageDefaultSize is the default page size if not specified
const PageDefaultSize = 10

// PageMaxSize is the maximum allowed page size
const PageMaxSize = 100
