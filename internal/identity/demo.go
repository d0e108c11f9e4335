package identity

import (
	"context"
	"time"

	"github.com/jonathan/resume-forge/internal/clock"
	"github.com/jonathan/resume-forge/internal/types"
)

// DemoDelay is how long a simulated sign-in takes
const DemoDelay = 1200 * time.Millisecond

// DemoProvider returns canned profiles. It is used while no provider configuration is stored.
type DemoProvider struct {
	Clock clock.Clock
	Delay time.Duration
}

// NewDemoProvider returns a demo provider with the default delay.
func NewDemoProvider(clk clock.Clock) *DemoProvider {
	if clk == nil {
		clk = clock.Real{}
	}
	return &DemoProvider{Clock: clk, Delay: DemoDelay}
}

// SignIn waits for the configured delay and returns the profile for provider.
func (d *DemoProvider) SignIn(ctx context.Context, provider types.ProviderName, _ string) (*types.User, *types.SeedData, error) {
	profile, ok := demoProfile(provider)
	if !ok {
		return nil, nil, &Error{Message: MessageUnknownProvider}
	}

	select {
	case <-d.Clock.After(d.Delay):
	case <-ctx.Done():
		return nil, nil, &Error{Message: MessageLoginCancelled, Cause: ctx.Err()}
	}
	return &profile.user, &profile.seed, nil
}

type demo struct {
	user types.User
	seed types.SeedData
}

// demoProfile builds a fresh profile each call so callers never share slices.
func demoProfile(provider types.ProviderName) (demo, bool) {
	switch provider {
	case types.ProviderGoogle:
		return starkProfile(), true
	case types.ProviderGitHub:
		return romanoffProfile(), true
	case types.ProviderMeta:
		return parkerProfile(), true
	}
	return demo{}, false
}

func starkProfile() demo {
	return demo{
		user: types.User{
			ID:       "mock_google",
			Name:     "Tony Stark",
			Email:    "tony@stark.com",
			PhotoURL: "https://images.unsplash.com/photo-1560250097-0b93528c311a?auto=format&fit=crop&w=256&q=80",
			Provider: types.ProviderGoogle,
		},
		seed: types.SeedData{
			PersonalInfo: types.PersonalInfo{
				FullName:  "Tony Stark",
				Email:     "tony@stark.com",
				JobTitle:  "Chief Technology Officer",
				Location:  "Malibu, California",
				Phone:     "+1 212 970 4133",
				LinkedIn:  "linkedin.com/in/ironman",
				GitHub:    "github.com/stark",
				Portfolio: "starkindustries.com",
				PhotoURL:  "https://images.unsplash.com/photo-1560250097-0b93528c311a?auto=format&fit=crop&w=400&q=80",
			},
			Summary: "Visionary Inventor and Industrialist with a proven track record of saving the world. Expert in clean energy, quantum mechanics, and AI robotics. Seeking to leverage nanotechnology and arc reactor expertise to solve global energy crises.",
			Education: []types.Education{
				{Institution: "MIT", Degree: "Ph.D. Physics & Electrical Engineering", FieldOfStudy: "Physics", Location: "Cambridge, MA", GraduationDate: "1987", GPA: "4.0"},
				{Institution: "MIT", Degree: "M.S. Artificial Intelligence", FieldOfStudy: "AI", Location: "Cambridge, MA", GraduationDate: "1985", GPA: "4.0"},
			},
			Experience: []types.Experience{
				{
					Company:   "Stark Industries",
					Role:      "Chief Executive Officer",
					Location:  "New York, NY",
					StartDate: "1991",
					EndDate:   "Present",
					IsCurrent: true,
					Description: []string{
						"Revolutionized the weapons industry before pivoting to clean energy dominance.",
						"Developed the Arc Reactor, providing sustainable energy to 40% of the US grid.",
						"Managed a global workforce of 15,000+ employees and a $500B annual budget.",
						"Oversaw the Damage Control joint venture to manage extraterrestrial salvage operations.",
					},
				},
				{
					Company:   "The Avengers",
					Role:      "Lead Technical Consultant",
					Location:  "Global",
					StartDate: "2012",
					EndDate:   "Present",
					IsCurrent: true,
					Description: []string{
						"Architected the Avengers HQ defense systems and Quinjet propulsion technology.",
						"Coordinated global defense strategies against Thanos-level threats.",
						"Mentored junior heroes (Spider-Man) in suit mechanics and ethical heroism.",
					},
				},
			},
			Projects: []types.Project{
				{
					Name:        "J.A.R.V.I.S. AI",
					Link:        "stark.com/jarvis",
					Description: []string{"Created a fully sentient AI capable of managing complex logistics and suit mechanics.", "Later evolved into Vision via the Mind Stone."},
					TechStack:   []string{"C++", "Python", "Quantum Computing"},
				},
				{
					Name:        "Mark LXXXV Armor",
					Link:        "stark.com/suits",
					Description: []string{"The pinnacle of nanotechnology integration with neuro-interface control.", "Features self-repairing nanobots and directed energy weaponry."},
					TechStack:   []string{"Nanotech", "Hardware Engineering"},
				},
			},
			Skills: []types.SkillCategory{
				{Name: "Engineering", Skills: []string{"Robotics", "Quantum Mechanics", "Nanotechnology", "Propulsion Systems", "AI Architecture"}},
				{Name: "Leadership", Skills: []string{"Crisis Management", "Strategic Planning", "Public Speaking", "Capital Allocation"}},
			},
			TemplateID: types.TemplateExecutive,
			ThemeColor: "#b91c1c",
			Background: "#ffffff",
		},
	}
}

func romanoffProfile() demo {
	return demo{
		user: types.User{
			ID:       "mock_github",
			Name:     "Natasha Romanoff",
			Email:    "natasha@shield.gov",
			PhotoURL: "https://images.unsplash.com/photo-1573496359142-b8d87734a5a2?auto=format&fit=crop&w=256&q=80",
			Provider: types.ProviderGitHub,
		},
		seed: types.SeedData{
			PersonalInfo: types.PersonalInfo{
				FullName:  "Natasha Romanoff",
				Email:     "natasha@shield.gov",
				JobTitle:  "Senior Cybersecurity Engineer",
				Location:  "Washington D.C.",
				Phone:     "+1 555 0100",
				LinkedIn:  "linkedin.com/in/blackwidow",
				GitHub:    "github.com/blackwidow",
				Portfolio: "shield.gov/agents/romanoff",
				PhotoURL:  "https://images.unsplash.com/photo-1573496359142-b8d87734a5a2?auto=format&fit=crop&w=400&q=80",
			},
			Summary: "Elite intelligence operative turned Full-Stack Security Engineer. Specializes in penetration testing, social engineering, and securing high-value assets. Fluent in Python, Rust, and 8 human languages.",
			Experience: []types.Experience{
				{
					Company:   "S.H.I.E.L.D.",
					Role:      "Lead Intelligence Officer",
					Location:  "Classified",
					StartDate: "2010",
					EndDate:   "2014",
					Description: []string{
						"Led a team of 12 agents in dismantling the Hydra algorithmic surveillance network.",
						"Conducted 50+ successful penetration tests on sovereign state firewalls.",
						"Optimized encryption protocols for the Helicarrier communication grid.",
					},
				},
			},
			Projects: []types.Project{
				{
					Name:        "Red Room Firewall",
					Link:        "github.com/shield/firewall",
					Description: []string{"Architected a zero-trust security perimeter blocking 99.9% of incursions.", "Implemented biometric authentication headers using retinal scanning libraries."},
					TechStack:   []string{"Python", "C++", "Cryptography"},
				},
				{
					Name:        "Widow Bite Protocol",
					Link:        "github.com/avengers/protocol",
					Description: []string{"Developed rapid response neural network for threat assessment.", "Reduced reaction time by 400ms during combat scenarios."},
					TechStack:   []string{"Rust", "TensorFlow", "IoT"},
				},
			},
			Skills: []types.SkillCategory{
				{Name: "Technical", Skills: []string{"Penetration Testing", "Python", "Rust", "Network Security", "Cryptography", "Linux"}},
				{Name: "Operations", Skills: []string{"Espionage", "Hand-to-Hand Combat", "Interrogation", "Strategic Infiltration"}},
			},
			TemplateID: types.TemplateModern,
			ThemeColor: "#000000",
			Background: "#f8fafc",
		},
	}
}

func parkerProfile() demo {
	return demo{
		user: types.User{
			ID:       "mock_meta",
			Name:     "Peter Parker",
			Email:    "peter@dailybugle.com",
			PhotoURL: "https://images.unsplash.com/photo-1506794778202-cad84cf45f1d?auto=format&fit=crop&w=256&q=80",
			Provider: types.ProviderMeta,
		},
		seed: types.SeedData{
			PersonalInfo: types.PersonalInfo{
				FullName:  "Peter Parker",
				Email:     "peter@dailybugle.com",
				JobTitle:  "Visual Designer & Frontend Dev",
				Location:  "Queens, NY",
				Phone:     "+1 917 555 0198",
				LinkedIn:  "linkedin.com/in/spidey",
				GitHub:    "github.com/webslinger",
				Portfolio: "peterparker.photography",
				PhotoURL:  "https://images.unsplash.com/photo-1506794778202-cad84cf45f1d?auto=format&fit=crop&w=400&q=80",
			},
			Summary: "Passionate photographer and aspiring web developer with a knack for capturing moments and coding sleek interfaces. Experience with React, Node.js, and high-tensile synthetic polymers.",
			Education: []types.Education{
				{Institution: "Empire State University", Degree: "B.S. Biophysics", FieldOfStudy: "Biophysics", Location: "New York, NY", GraduationDate: "2024", GPA: "3.9"},
			},
			Experience: []types.Experience{
				{
					Company:   "The Daily Bugle",
					Role:      "Freelance Photojournalist",
					Location:  "New York, NY",
					StartDate: "2016",
					EndDate:   "Present",
					IsCurrent: true,
					Description: []string{
						"Captured exclusive, high-resolution imagery of local vigilantes for front-page features.",
						"Managed digital asset library and optimized image compression for web delivery.",
						"Negotiated licensing rights with J. Jonah Jameson under high-pressure deadlines.",
					},
				},
				{
					Company:   "Octavius Industries",
					Role:      "Research Intern",
					Location:  "New York, NY",
					StartDate: "2023",
					EndDate:   "2023",
					Description: []string{
						"Assisted Dr. Otto Octavius in neural interface calibration for prosthetic limbs.",
						"Debugged control software written in C for mechanical arm actuators.",
					},
				},
			},
			Projects: []types.Project{
				{
					Name:        "Web Shooter Algo",
					Link:        "github.com/spidey/fluid",
					Description: []string{"Developed a fluid dynamics algorithm to calculate tensile strength on the fly.", "Optimized chemical synthesis formula for 2-hour dissolution."},
					TechStack:   []string{"Chemistry", "Calculus", "Node.js"},
				},
				{
					Name:        "Spidey Sense App",
					Link:        "github.com/spidey/sense",
					Description: []string{"Mobile app using geo-location to track neighborhood crime rates.", "Built with React Native and Firebase."},
					TechStack:   []string{"React Native", "Firebase", "Maps API"},
				},
			},
			Skills: []types.SkillCategory{
				{Name: "Creative", Skills: []string{"Photography", "Adobe Lightroom", "UI/UX Design", "React", "Tailwind CSS"}},
				{Name: "Scientific", Skills: []string{"Chemistry", "Physics", "Mathematics", "Lab Safety"}},
			},
			TemplateID: types.TemplateCreative,
			ThemeColor: "#2563eb",
			Background: "#fffbeb",
		},
	}
}
